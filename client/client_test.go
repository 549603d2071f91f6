package client

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/simpledb/internal"
	"github.com/tuannm99/simpledb/internal/engine"
	"github.com/tuannm99/simpledb/internal/heap"
	"github.com/tuannm99/simpledb/internal/record"
	"github.com/tuannm99/simpledb/server/simpledbwire"
)

func startServer(t *testing.T) string {
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

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- simpledbwire.Serve(ctx, ln, db) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		_ = db.Close()
	})
	return ln.Addr().String()
}

func TestClient_Exec(t *testing.T) {
	addr := startServer(t)
	c, err := Dial(addr, time.Second, WithRWTimeout(5*time.Second))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	r, err := c.Exec("scan users")
	require.NoError(t, err)
	assert.Equal(t, []string{"users.id", "users.name"}, r.Columns)
	require.Len(t, r.Rows, 2)
	// numbers come back as JSON numbers
	assert.Equal(t, []any{float64(2), "bob"}, r.Rows[1])

	_, err = c.Exec("scan nope")
	assert.ErrorIs(t, err, ErrRemote)
	assert.ErrorContains(t, err, "table not found")

	// a server error leaves the session usable
	r, err = c.Exec(`\help`)
	require.NoError(t, err)
	assert.Contains(t, r.Text, `\dt`)
}

func TestClient_QuitEndsSession(t *testing.T) {
	addr := startServer(t)
	c, err := Dial(addr, time.Second)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	r, err := c.Exec(`\q`)
	require.NoError(t, err)
	assert.True(t, r.Quit)

	_, err = c.Exec(`\dt`)
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, c.Close())
}

func TestClient_CancelStalledRequest(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	c, err := Dial(ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	srv := <-accepted
	defer func() { _ = srv.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	_, err = c.ExecContext(ctx, `\dt`)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.Exec(`\dt`)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_Nil(t *testing.T) {
	var c *Client
	assert.NoError(t, c.Close())
	_, err := c.Exec(`\dt`)
	assert.ErrorIs(t, err, ErrClosed)
}
