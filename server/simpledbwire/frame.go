package simpledbwire

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tuannm99/simpledb/internal/alias/bx"
)

// Frame layout:
// [0:4) payload length, u32 big endian
// [4: ) JSON payload
const headerSize = 4

// MaxFrameSize bounds the payload of one frame.
const MaxFrameSize = 8 << 20 // 8 MiB

var (
	ErrEmptyFrame    = errors.New("simpledbwire: empty frame")
	ErrFrameTooLarge = errors.New("simpledbwire: frame too large")
	ErrBadPayload    = errors.New("simpledbwire: bad payload")
)

func checkLen(n int) error {
	switch {
	case n == 0:
		return ErrEmptyFrame
	case n > MaxFrameSize:
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, MaxFrameSize)
	}
	return nil
}

// AppendFrame appends v, framed, to dst.
func AppendFrame(dst []byte, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return dst, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if err := checkLen(len(payload)); err != nil {
		return dst, err
	}
	start := len(dst)
	dst = append(dst, make([]byte, headerSize)...)
	bx.PutU32At(dst, start, uint32(len(payload)))
	return append(dst, payload...), nil
}

// ReadFrame reads one frame from r into v. A stream that ends between frames
// returns io.EOF; one that ends inside a frame returns io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader, v any) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err
	}
	n := int(bx.U32(hdr[:]))
	if err := checkLen(n); err != nil {
		return err
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	return nil
}

// WriteFrame writes v to w with a single Write call.
func WriteFrame(w io.Writer, v any) error {
	frame, err := AppendFrame(nil, v)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// Codec frames one connection. Reads are buffered; each Send is one Write
// reusing the previous frame's buffer. Not safe for concurrent Sends.
type Codec struct {
	r   *bufio.Reader
	w   io.Writer
	buf []byte
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{r: bufio.NewReader(rw), w: rw}
}

func (c *Codec) Recv(v any) error { return ReadFrame(c.r, v) }

func (c *Codec) Send(v any) error {
	frame, err := AppendFrame(c.buf[:0], v)
	if err != nil {
		return err
	}
	c.buf = frame
	_, err = c.w.Write(frame)
	return err
}
