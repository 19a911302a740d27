package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSize(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	// Full built-in coverage: 48 security rules plus the bare-except check.
	assert.GreaterOrEqual(t, catalog.Size(), 48)
}

func TestCatalogDisabledRules(t *testing.T) {
	catalog, err := NewCatalog([]string{"SEC001", "SEC004"})
	require.NoError(t, err)

	_, ok := catalog.Lookup("SEC001")
	assert.False(t, ok)
	_, ok = catalog.Lookup("SEC004")
	assert.False(t, ok)
	_, ok = catalog.Lookup("SEC002")
	assert.True(t, ok)
}

func TestCatalogDisabledGlob(t *testing.T) {
	catalog, err := NewCatalog([]string{"SEC02*"})
	require.NoError(t, err)

	for _, id := range []string{"SEC020", "SEC024", "SEC029"} {
		_, ok := catalog.Lookup(id)
		assert.False(t, ok, "expected %s to be disabled", id)
	}
	_, ok := catalog.Lookup("SEC030")
	assert.True(t, ok)
}

func TestCatalogInvalidDisabledPattern(t *testing.T) {
	_, err := NewCatalog([]string{"[invalid"})
	assert.Error(t, err)
}

func TestForLanguage(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	pythonRules := catalog.ForLanguage("python")
	ids := make(map[string]bool, len(pythonRules))
	for _, r := range pythonRules {
		ids[r.ID] = true
	}

	assert.True(t, ids["SEC001"], "python eval rule applies")
	assert.True(t, ids["SEC020"], `"all" rules apply to python files`)
	assert.False(t, ids["SEC007"], "typescript eval rule does not apply")

	// Unrecognized extensions still get the generic regex rules.
	opaque := catalog.ForLanguage("")
	for _, r := range opaque {
		assert.Contains(t, r.Languages, "all")
	}
	assert.NotEmpty(t, opaque)
}

func TestRegexRulesCompiled(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	for _, rule := range catalog.Rules() {
		if rule.Kind == KindRegex {
			require.NotNil(t, rule.Regex(), "rule %s must compile", rule.ID)
		} else {
			assert.Nil(t, rule.Regex())
		}
	}
}

func TestCalleePath(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"eval($$$)", "eval"},
		{"os.system($$$)", "os.system"},
		{"urllib.request.urlopen($$$)", "urllib.request.urlopen"},
		{"new Function($$$)", "Function"},
		{"innerHTML = $$$", "innerHTML"},
		{"dangerouslySetInnerHTML", "dangerouslySetInnerHTML"},
	}

	for _, tt := range tests {
		rule := Rule{Pattern: tt.pattern}
		assert.Equal(t, tt.want, rule.CalleePath(), tt.pattern)
	}
}

func TestShape(t *testing.T) {
	assert.Equal(t, ShapeCall, (&Rule{Pattern: "eval($$$)"}).Shape())
	assert.Equal(t, ShapeAssign, (&Rule{Pattern: "innerHTML = $$$"}).Shape())
	assert.Equal(t, ShapeBare, (&Rule{Pattern: "dangerouslySetInnerHTML"}).Shape())
}
