package metadata_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cosls/pkg/metadata"
)

func openDictionary(t *testing.T) *metadata.SQL {
	t.Helper()

	db, err := metadata.OpenSQLite(filepath.Join(t.TempDir(), "classes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.DB().Exec(`CREATE TABLE classes (Name TEXT PRIMARY KEY, ProcedureBlock INTEGER)`)
	require.NoError(t, err)
	_, err = db.DB().Exec(`INSERT INTO classes VALUES ('App.Legacy', 0), ('App.Modern', 1)`)
	require.NoError(t, err)
	return db
}

func TestSQL_Query(t *testing.T) {
	t.Parallel()

	db := openDictionary(t)

	table, err := db.Query(context.Background(), "SELECT Name, ProcedureBlock FROM classes ORDER BY Name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "ProcedureBlock"}, table.Columns)
	require.Len(t, table.Rows, 2)

	name, ok := table.Value(0, "name")
	require.True(t, ok)
	assert.Equal(t, "App.Legacy", name)

	_, ok = table.Value(5, "name")
	assert.False(t, ok)
	assert.Equal(t, -1, table.Column("missing"))

	_, err = db.Query(context.Background(), "SELECT * FROM nowhere")
	require.Error(t, err)
}

func TestDictionary_ProcedureBlock(t *testing.T) {
	t.Parallel()

	dict, err := metadata.NewDictionary(openDictionary(t), "classes")
	require.NoError(t, err)
	ctx := context.Background()

	pb, err := dict.ProcedureBlock(ctx, "App.Legacy")
	require.NoError(t, err)
	assert.False(t, pb)

	pb, err = dict.ProcedureBlock(ctx, "App.Modern")
	require.NoError(t, err)
	assert.True(t, pb)

	_, err = dict.ProcedureBlock(ctx, "App.Missing")
	require.ErrorIs(t, err, metadata.ErrNotFound)
}

func TestDictionary_Cache(t *testing.T) {
	t.Parallel()

	calls := 0
	q := metadata.QuerierFunc(func(_ context.Context, _ string, params ...any) (*metadata.Table, error) {
		calls++
		if params[0] == "Broken" {
			return nil, errors.New("connection refused")
		}
		return &metadata.Table{Columns: []string{"PROCEDUREBLOCK"}, Rows: [][]any{{"1"}}}, nil
	})

	dict, err := metadata.NewDictionary(q, "%Dictionary.CompiledClass")
	require.NoError(t, err)

	for range 3 {
		pb, err := dict.ProcedureBlock(context.Background(), "App.X")
		require.NoError(t, err)
		assert.True(t, pb)
	}
	assert.Equal(t, 1, calls)

	_, err = dict.ProcedureBlock(context.Background(), "Broken")
	require.Error(t, err)
}

func TestNewDictionary_RejectsTableName(t *testing.T) {
	t.Parallel()

	_, err := metadata.NewDictionary(nil, "classes; DROP TABLE classes")
	require.Error(t, err)
}
