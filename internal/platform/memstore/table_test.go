package memstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type row struct {
	ID   uuid.UUID
	Name string
	Tags []string
}

func newTable() *Table[row] {
	return NewTable("row", func(r *row) uuid.UUID { return r.ID })
}

func TestTable_CRUD(t *testing.T) {
	tbl := newTable()
	r := &row{ID: uuid.New(), Name: "first"}
	require.NoError(t, tbl.Insert(r))

	got, err := tbl.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	got.Name = "mutated outside"
	again, _ := tbl.Get(r.ID)
	assert.Equal(t, "first", again.Name, "rows are copied out")

	r.Name = "second"
	require.NoError(t, tbl.Update(r))
	again, _ = tbl.Get(r.ID)
	assert.Equal(t, "second", again.Name)

	require.NoError(t, tbl.Delete(r.ID))
	_, err = tbl.Get(r.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTable_MissingIDsLeaveTableUnchanged(t *testing.T) {
	tbl := newTable()
	require.NoError(t, tbl.Insert(&row{ID: uuid.New(), Name: "kept"}))

	assert.ErrorIs(t, tbl.Delete(uuid.New()), apperr.ErrNotFound)
	assert.ErrorIs(t, tbl.Update(&row{ID: uuid.New()}), apperr.ErrNotFound)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_DuplicateInsert(t *testing.T) {
	tbl := newTable()
	r := &row{ID: uuid.New()}
	require.NoError(t, tbl.Insert(r))
	assert.ErrorIs(t, tbl.Insert(r), apperr.ErrConflict)
}

func TestTable_ListNewestFirstWithFilter(t *testing.T) {
	tbl := newTable()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, tbl.Insert(&row{ID: uuid.New(), Name: n}))
	}

	all := tbl.List(nil)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name)
	assert.Equal(t, "a", all[2].Name)

	some := tbl.List(func(r *row) bool { return r.Name != "b" })
	assert.Len(t, some, 2)
}
