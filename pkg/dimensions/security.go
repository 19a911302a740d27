package dimensions

import (
	"fmt"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

// securityKeywords signal that the document discusses security at all.
var securityKeywords = []string{"security", "inject", "sanitize", "validate", "escape", "credential"}

var securityScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "skill_md_security",
		Description: "No dangerous code patterns in SKILL.md code blocks",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("clean", rubric.ScoreExcellent, "No security issues in SKILL.md code blocks"),
			level("minor", rubric.ScoreGood, "1 minor security issue in SKILL.md"),
			level("moderate", rubric.ScoreFair, "2-3 security issues in SKILL.md"),
			level("significant", rubric.ScorePoor, "4-5 security issues in SKILL.md"),
			level("critical", rubric.ScoreMissing, "Critical security issues in SKILL.md"),
		},
	},
	{
		Name:        "script_security",
		Description: "No dangerous patterns in bundled scripts",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("clean", rubric.ScoreExcellent, "No security issues in scripts"),
			level("minor", rubric.ScoreGood, "1 minor security issue in scripts"),
			level("moderate", rubric.ScoreFair, "2-3 security issues in scripts"),
			level("significant", rubric.ScorePoor, "4-5 security issues in scripts"),
			level("critical", rubric.ScoreMissing, "Critical security issues in scripts"),
		},
	},
	{
		Name:        "security_awareness",
		Description: "Skill documents security considerations",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("comprehensive", rubric.ScoreExcellent, "Detailed security section with mitigations"),
			level("good", rubric.ScoreGood, "Mentions security considerations"),
			level("adequate", rubric.ScoreFair, "Has basic security mention"),
			level("minimal", rubric.ScorePoor, "Security mentioned briefly"),
			level("missing", rubric.ScoreMissing, "No security documentation"),
		},
	},
	{
		Name:        "security_documentation",
		Description: "References and external security guidance",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "References directory with security docs"),
			level("good", rubric.ScoreGood, "References security topics in SKILL.md"),
			level("adequate", rubric.ScoreFair, "Has references directory"),
			level("minimal", rubric.ScorePoor, "Basic references present"),
			level("none", rubric.ScoreMissing, "No references or security docs"),
		},
	},
})

// Security scores the dangerous-pattern findings from the rule engine plus
// the document's own security awareness. Any error-severity finding caps the
// affected pattern criterion at the fair level regardless of count.
func Security(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("security", cfg, "SKILL.md not found", "Create SKILL.md with security considerations")
	}

	var documentFindings, scriptFindings []rules.Finding
	for _, f := range in.Findings {
		if f.Severity == rules.SeverityInfo {
			continue
		}
		if f.File == skill.DocumentName {
			documentFindings = append(documentFindings, f)
		} else {
			scriptFindings = append(scriptFindings, f)
		}
	}

	document := sk.Document()
	documentLower := strings.ToLower(document)
	hasDiscussion := false
	for _, keyword := range securityKeywords {
		if strings.Contains(documentLower, keyword) {
			hasDiscussion = true
			break
		}
	}
	hasSection := strings.Contains(document, "## Security") || strings.Contains(document, "# Security")
	hasRefs := sk.Structure.HasReferences

	res := securityScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "skill_md_security":
			return issueLevel(documentFindings, "SKILL.md")
		case "script_security":
			return issueLevel(scriptFindings, "scripts")
		case "security_awareness":
			switch {
			case hasSection:
				return "comprehensive", "Has dedicated Security section"
			case hasDiscussion:
				return "good", "Mentions security considerations"
			}
			return "missing", "No security documentation"
		case "security_documentation":
			switch {
			case hasRefs && hasDiscussion:
				return "complete", "References directory with security topics"
			case hasDiscussion:
				return "good", "Mentions security in SKILL.md"
			case hasRefs:
				return "adequate", "Has references directory"
			}
			return "none", "No security references"
		}
		return "none", "Not assessed"
	})

	score := finish("security", cfg, res, "Security considerations are adequate")
	for _, f := range documentFindings {
		score.Findings = append(score.Findings, fmt.Sprintf("SECURITY in %s:%d: %s", f.File, f.Line, f.Message))
	}
	if len(scriptFindings) > 0 {
		score.Findings = append(score.Findings, fmt.Sprintf("Found %d security issue(s) in scripts", len(scriptFindings)))
	}
	return score
}

// issueLevel buckets finding counts into ordinal levels. Error severity
// demotes anything above the fair level.
func issueLevel(findings []rules.Finding, where string) (string, string) {
	count := len(findings)
	hasError := false
	for _, f := range findings {
		if f.Severity == rules.SeverityError {
			hasError = true
			break
		}
	}

	var name string
	switch {
	case count == 0:
		name = "clean"
	case count == 1:
		name = "minor"
	case count <= 3:
		name = "moderate"
	case count <= 5:
		name = "significant"
	default:
		name = "critical"
	}
	if hasError && (name == "minor" || name == "clean") {
		name = "moderate"
	}

	if count == 0 {
		return name, fmt.Sprintf("No security issues in %s", where)
	}
	return name, fmt.Sprintf("%d security issue(s) in %s", count, where)
}
