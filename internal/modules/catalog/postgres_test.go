package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMappingRoundTrip(t *testing.T) {
	rows := toRows(Default())

	for _, r := range rows {
		assert.NotNil(t, r.CompatibleModels, "wildcard must be stored as an empty array, not NULL")
	}

	// storage returns rows ordered by kind then position
	back, err := fromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, Default(), back)
}

func TestFromRowsUnknownKind(t *testing.T) {
	_, err := fromRows([]itemRow{{Kind: "engine", ID: "v8"}})
	assert.Error(t, err)
}
