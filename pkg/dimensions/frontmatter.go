package dimensions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

var hyphenCaseName = regexp.MustCompile(`^[a-z0-9-]+$`)

// descriptionContextWords signal the description carries concrete usage
// context rather than a generic blurb.
var descriptionContextWords = []string{"when", "use", "skill", "handle", "process"}

var frontmatterScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "required_fields",
		Description: "Presence of required frontmatter fields",
		Weight:      0.40,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "Both 'name' and 'description' present with meaningful values"),
			level("partial", rubric.ScoreFair, "One required field present, one missing"),
			level("missing", rubric.ScoreMissing, "Both required fields missing"),
		},
	},
	{
		Name:        "description_quality",
		Description: "Quality and completeness of description field",
		Weight:      0.35,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Description is 20-1024 chars, clear and specific"),
			level("good", rubric.ScoreGood, "Description is 20-1024 chars but somewhat generic"),
			level("fair", rubric.ScoreFair, "Description is too long (>1024 chars)"),
			level("poor", rubric.ScorePoor, "Description exists but is very short (<20 chars)"),
			level("missing", rubric.ScoreMissing, "No description field"),
		},
	},
	{
		Name:        "naming_convention",
		Description: "Follows hyphen-case naming convention",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("perfect", rubric.ScoreExcellent, "Name follows hyphen-case pattern [a-z0-9-]+"),
			level("minor_issues", rubric.ScoreFair, "Name has some issues (invalid hyphens)"),
			level("invalid", rubric.ScoreMissing, "Name does not follow hyphen-case at all"),
		},
	},
})

// Frontmatter scores the instruction document's metadata block: required
// fields, description quality, and naming convention.
func Frontmatter(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("frontmatter", cfg, "SKILL.md not found", "Create SKILL.md with proper frontmatter")
	}
	if sk.Frontmatter == nil {
		score := absent("frontmatter", cfg, "Frontmatter missing or malformed", "Fix YAML frontmatter syntax")
		score.Findings = append(score.Findings, sk.ParseWarnings...)
		return score
	}

	name := frontmatterString(sk, "name")
	description := frontmatterString(sk, "description")

	res := frontmatterScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "required_fields":
			hasName := strings.TrimSpace(name) != ""
			hasDesc := strings.TrimSpace(description) != ""
			switch {
			case hasName && hasDesc:
				return "complete", fmt.Sprintf("name='%s', description present", name)
			case hasName:
				return "partial", "only name present"
			case hasDesc:
				return "partial", "only description present"
			}
			return "missing", "no required fields"
		case "description_quality":
			descLen := len(description)
			switch {
			case descLen == 0:
				return "missing", "description empty"
			case descLen < 20:
				return "poor", fmt.Sprintf("description is %d chars (very short)", descLen)
			case descLen > 1024:
				return "fair", fmt.Sprintf("description is %d chars (too long)", descLen)
			}
			lower := strings.ToLower(description)
			for _, word := range descriptionContextWords {
				if strings.Contains(lower, word) {
					return "excellent", fmt.Sprintf("description is %d chars with specific usage context", descLen)
				}
			}
			return "good", fmt.Sprintf("description is %d chars but somewhat generic", descLen)
		case "naming_convention":
			if name == "" {
				return "invalid", "name field is empty"
			}
			badHyphens := strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--")
			switch {
			case hyphenCaseName.MatchString(name) && !badHyphens:
				return "perfect", fmt.Sprintf("name '%s' follows hyphen-case", name)
			case badHyphens:
				return "minor_issues", fmt.Sprintf("name '%s' has invalid hyphen placement", name)
			}
			return "invalid", fmt.Sprintf("name '%s' does not follow hyphen-case", name)
		}
		return "missing", "Unknown criterion"
	})

	return finish("frontmatter", cfg, res, "Frontmatter is adequate")
}
