package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/simpledb/internal"
	"github.com/tuannm99/simpledb/internal/catalog"
	"github.com/tuannm99/simpledb/internal/engine"
	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
)

func newShell(t *testing.T) *Shell {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.txt"), []byte("users (id int pk, name string)\n"), 0o644))

	schema := record.SchemaOf(record.Col("id", record.ColInt), record.Col("name", record.ColString))
	f, err := os.Create(filepath.Join(dir, "users.dat"))
	require.NoError(t, err)
	_, err = heap.Encode(f, schema, 4096, [][]any{{int32(1), "ada"}, {int32(2), "bob"}})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg := internal.DefaultConfig()
	cfg.Storage.Workdir = dir
	cfg.Storage.CatalogFile = "catalog.txt"
	db, err := engine.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func render(r *Reply) string {
	var b bytes.Buffer
	Print(&b, r)
	return b.String()
}

func TestShell_Scan(t *testing.T) {
	sh := newShell(t)
	r, err := sh.Exec(context.Background(), "scan users u;")
	require.NoError(t, err)
	assert.False(t, r.Quit)
	assert.Equal(t, "u.id | u.name\n-----+-------\n1    | ada   \n2    | bob   \n(2 rows)\n", render(r))
}

func TestShell_MetaCommands(t *testing.T) {
	sh := newShell(t)
	ctx := context.Background()

	r, err := sh.Exec(ctx, `\dt`)
	require.NoError(t, err)
	assert.Contains(t, render(r), "users")

	r, err = sh.Exec(ctx, `\d users`)
	require.NoError(t, err)
	assert.Contains(t, render(r), "id     | int    | pk")

	r, err = sh.Exec(ctx, `\page users 0`)
	require.NoError(t, err)
	assert.Contains(t, r.Text, "used=2")

	r, err = sh.Exec(ctx, `\help`)
	require.NoError(t, err)
	assert.Equal(t, Help+"\n", render(r))

	r, err = sh.Exec(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, render(r))

	r, err = sh.Exec(ctx, `\q`)
	require.NoError(t, err)
	assert.True(t, r.Quit)
}

func TestShell_Errors(t *testing.T) {
	sh := newShell(t)
	ctx := context.Background()

	_, err := sh.Exec(ctx, `\d nope`)
	assert.ErrorIs(t, err, catalog.ErrTableNotFound)
	_, err = sh.Exec(ctx, "bogus")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	_, err = sh.Exec(ctx, `\page users x`)
	require.Error(t, err)
	_, err = sh.Exec(ctx, "scan")
	require.Error(t, err)
}
