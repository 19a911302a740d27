package skill

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSkill(t *testing.T, doc string) *Skill {
	t.Helper()
	dir := writeSkill(t, map[string]string{"SKILL.md": doc})
	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)
	return sk
}

func TestValidateAccepts(t *testing.T) {
	sk := loadSkill(t, validDoc)
	assert.Empty(t, Validate(sk))
}

func TestValidateMissingDocument(t *testing.T) {
	sk := &Skill{}
	problems := Validate(sk)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "SKILL.md not found")
}

func TestValidateMissingFields(t *testing.T) {
	sk := loadSkill(t, "---\nversion: 1.0.0\n---\nbody")
	problems := Validate(sk)
	assert.Contains(t, strings.Join(problems, "; "), "missing 'name'")
	assert.Contains(t, strings.Join(problems, "; "), "missing 'description'")
}

func TestValidateUnexpectedKeys(t *testing.T) {
	sk := loadSkill(t, "---\nname: ok-skill\ndescription: fine\nauthor: me\n---\nbody")
	problems := Validate(sk)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems[0], "unexpected frontmatter key(s): author")
}

func TestValidateTodoPlaceholder(t *testing.T) {
	sk := loadSkill(t, "---\nname: ok-skill\ndescription: fine\n---\n[TODO: fill this in]")
	problems := Validate(sk)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "[TODO:]")
}

func TestValidateDescriptionRules(t *testing.T) {
	sk := loadSkill(t, "---\nname: ok-skill\ndescription: uses <xml> tags\n---\nbody")
	problems := Validate(sk)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "angle brackets")

	long := strings.Repeat("a", 1025)
	sk = loadSkill(t, "---\nname: ok-skill\ndescription: "+long+"\n---\nbody")
	problems = Validate(sk)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "description too long")
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		problem string
	}{
		{"valid", "pdf-tools", ""},
		{"valid with digits", "web3-audit", ""},
		{"uppercase", "PDF-Tools", "hyphen-case"},
		{"underscores", "pdf_tools", "hyphen-case"},
		{"leading hyphen", "-pdf", "start/end with hyphen"},
		{"trailing hyphen", "pdf-", "start/end with hyphen"},
		{"double hyphen", "pdf--tools", "consecutive hyphens"},
		{"empty", "  ", "must not be empty"},
		{"too long", strings.Repeat("a", 65), "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateName(tt.input)
			if tt.problem == "" {
				assert.Empty(t, got)
			} else {
				assert.Contains(t, got, tt.problem)
			}
		})
	}
}
