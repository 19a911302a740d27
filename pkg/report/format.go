package report

import (
	"strconv"

	"github.com/pkg/errors"
)

// Formatter renders an EvaluationReport into a document.
type Formatter interface {
	Format(r *EvaluationReport) (string, error)
}

// NewFormatter returns the named formatter. "md" aliases "markdown".
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	}
	return nil, errors.Errorf("unknown report format %q, expected text, markdown, or json", name)
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 0, 64)
}

func formatScore1(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func formatScore2(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
