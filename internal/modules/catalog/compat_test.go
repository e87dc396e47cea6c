package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCompatibilityWildcard(t *testing.T) {
	for _, c := range []Compatibility{Any(), RestrictedTo(), RestrictedTo(""), {}} {
		assert.True(t, c.IsWildcard())
		assert.True(t, c.Allows("anything"))
		assert.Nil(t, c.IDs())
	}
}

func TestCompatibilityRestricted(t *testing.T) {
	c := RestrictedTo("vento", "sirio", "vento")
	assert.False(t, c.IsWildcard())
	assert.True(t, c.Allows("vento"))
	assert.False(t, c.Allows("aurora"))
	assert.Equal(t, []string{"vento", "sirio"}, c.IDs())
}

func TestCompatibilityJSON(t *testing.T) {
	b, err := json.Marshal(Any())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	var c Compatibility
	require.NoError(t, json.Unmarshal([]byte(`[]`), &c))
	assert.True(t, c.IsWildcard())

	require.NoError(t, json.Unmarshal([]byte(`["sirio"]`), &c))
	assert.Equal(t, []string{"sirio"}, c.IDs())

	b, err = json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `["sirio"]`, string(b))
}

func TestCompatibilityYAML(t *testing.T) {
	var doc struct {
		Open   Compatibility `yaml:"open"`
		Closed Compatibility `yaml:"closed"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("open: []\nclosed: [base, style]\n"), &doc))
	assert.True(t, doc.Open.IsWildcard())
	assert.Equal(t, []string{"base", "style"}, doc.Closed.IDs())
}
