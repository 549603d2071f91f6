package simpledbwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/tuannm99/simpledb/internal/engine"
	"github.com/tuannm99/simpledb/internal/shell"
)

// Serve answers shell commands on ln until ctx is done. All connections share
// db. It closes ln before returning.
func Serve(ctx context.Context, ln net.Listener, db *engine.Database) error {
	defer func() { _ = ln.Close() }()
	slog.Info("simpledbwire: listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	sh := shell.New(db)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("simpledbwire: accept", "err", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleConn(ctx, conn, sh)
		}()
	}
}

// Run listens on addr and serves until ctx is done.
func Run(ctx context.Context, addr string, db *engine.Database) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return Serve(ctx, ln, db)
}

func handleConn(ctx context.Context, conn net.Conn, sh *shell.Shell) {
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	remote := conn.RemoteAddr().String()
	slog.Debug("simpledbwire: session start", "remote", remote)
	defer slog.Debug("simpledbwire: session end", "remote", remote)

	codec := NewCodec(conn)
	for {
		var req Request
		if err := codec.Recv(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			// the stream cannot be resynchronized after a bad frame
			slog.Debug("simpledbwire: read", "remote", remote, "err", err)
			_ = codec.Send(Response{Error: err.Error()})
			return
		}

		reply, err := sh.Exec(ctx, req.Command)
		resp := Response{ID: req.ID, Reply: reply}
		if err != nil {
			resp = Response{ID: req.ID, Error: err.Error()}
		}
		if err := codec.Send(resp); err != nil {
			slog.Warn("simpledbwire: write", "remote", remote, "err", err)
			return
		}
		if reply != nil && reply.Quit {
			return
		}
	}
}
