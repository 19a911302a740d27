package report

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// JSONFormatter renders the report as indented JSON for machine consumers.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(r *EvaluationReport) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling evaluation report")
	}
	return string(out), nil
}

// Schema returns the JSON schema of the EvaluationReport, documenting the
// formatter data contract.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	schema := reflector.Reflect(&EvaluationReport{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling report schema")
	}
	return out, nil
}
