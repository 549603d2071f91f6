// Package client talks to a simpledb wire server.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/tuannm99/simpledb/internal/shell"
	"github.com/tuannm99/simpledb/server/simpledbwire"
)

var (
	// ErrClosed is returned once the client is closed or the server ended
	// the session.
	ErrClosed = errors.New("client: closed")
	// ErrRemote wraps an error message sent back by the server.
	ErrRemote = errors.New("client: server error")
)

type Option func(*Client)

// WithRWTimeout bounds each Exec that has no context deadline.
func WithRWTimeout(d time.Duration) Option {
	return func(c *Client) { c.rwTimeout = d }
}

// Client runs one command at a time over a single connection. Concurrent
// Execs are serialized.
type Client struct {
	mu     deadlock.Mutex
	conn   net.Conn
	codec  *simpledbwire.Codec
	nextID uint64
	closed bool

	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration, opts ...Option) (*Client, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return DialContext(ctx, addr, opts...)
}

func DialContext(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	c := &Client{conn: conn, codec: simpledbwire.NewCodec(conn)}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.closed || c.conn == nil {
		c.closed = true
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) Exec(command string) (*shell.Reply, error) {
	return c.ExecContext(context.Background(), command)
}

// ExecContext sends one command line and waits for its reply. Cancelling ctx
// interrupts a pending round trip; the connection is unusable afterwards.
func (c *Client) ExecContext(ctx context.Context, command string) (*shell.Reply, error) {
	if c == nil {
		return nil, ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	c.nextID++
	id := c.nextID

	if err := c.setDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = c.conn.SetDeadline(time.Time{}) }()
	stop := context.AfterFunc(ctx, func() { _ = c.conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	resp, err := c.roundTrip(simpledbwire.Request{ID: id, Command: command})
	if err != nil {
		_ = c.closeLocked()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	if resp.ID != id {
		_ = c.closeLocked()
		return nil, fmt.Errorf("client: response id mismatch: got=%d want=%d", resp.ID, id)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}
	reply := resp.Reply
	if reply == nil {
		reply = &shell.Reply{}
	}
	if reply.Quit {
		_ = c.closeLocked()
	}
	return reply, nil
}

func (c *Client) roundTrip(req simpledbwire.Request) (simpledbwire.Response, error) {
	var resp simpledbwire.Response
	if err := c.codec.Send(req); err != nil {
		return resp, fmt.Errorf("client: send: %w", err)
	}
	if err := c.codec.Recv(&resp); err != nil {
		return resp, fmt.Errorf("client: recv: %w", err)
	}
	return resp, nil
}

// setDeadline prefers the context deadline over the configured timeout.
func (c *Client) setDeadline(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
