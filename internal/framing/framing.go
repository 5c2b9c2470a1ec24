// Package framing implements the Chrome native-messaging framing: each
// message is a JSON document preceded by its byte length as a 4-byte
// little-endian unsigned integer, exchanged over a byte-oriented stdio
// transport.
package framing

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// MaxFrameSize is the largest frame the host will write or accept.
// Chrome applies the same 1 MiB limit to messages from a native host.
const MaxFrameSize = 1 << 20

// Length prefix size in bytes
const prefixSize = 4

// ErrFrameTooLarge is returned when a payload exceeds MaxFrameSize in
// either direction. An oversized outbound payload is never written, so the
// stream is left intact; an oversized inbound length means the stream can
// no longer be reframed.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// Codec reads and writes framed messages over a reader/writer pair.
// Writes are exclusive per call so events from concurrent jobs interleave
// at frame boundaries only.
type Codec struct {
	r   io.Reader
	w   io.Writer
	wmu sync.Mutex
	log *slog.Logger
}

// New creates a codec over the given transport, mirroring traffic to log.
func New(r io.Reader, w io.Writer, log *slog.Logger) *Codec {
	return &Codec{r: r, w: w, log: log}
}

// Send serializes v, prefixes it with its length and writes both as a
// single write, flushing immediately. Payloads over MaxFrameSize are
// rejected without touching the stream.
func (c *Codec) Send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		c.log.Error("frame encode failed", "err", err)
		return fmt.Errorf("encode frame: %w", err)
	}
	if len(payload) > MaxFrameSize {
		c.log.Error("outbound frame too large", "size", len(payload))
		return fmt.Errorf("outbound frame of %d bytes: %w", len(payload), ErrFrameTooLarge)
	}

	frame := make([]byte, prefixSize+len(payload))
	binary.LittleEndian.PutUint32(frame[:prefixSize], uint32(len(payload)))
	copy(frame[prefixSize:], payload)

	c.wmu.Lock()
	_, err = c.w.Write(frame)
	c.wmu.Unlock()
	if err != nil {
		c.log.Error("frame write failed", "err", err)
		return fmt.Errorf("write frame: %w", err)
	}

	c.log.Debug("sent", "payload", string(payload))
	return nil
}

// Receive blocks until a full frame is available and returns its payload.
// A closed or truncated stream is reported as io.EOF, which the caller
// must treat as "no more messages, shut down".
func (c *Codec) Receive() (json.RawMessage, error) {
	prefix := make([]byte, prefixSize)
	if _, err := io.ReadFull(c.r, prefix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		c.log.Error("frame prefix read failed", "err", err)
		return nil, fmt.Errorf("read frame prefix: %w", err)
	}

	length := binary.LittleEndian.Uint32(prefix)
	if length > MaxFrameSize {
		c.log.Error("inbound frame too large", "size", length)
		return nil, fmt.Errorf("inbound frame of %d bytes: %w", length, ErrFrameTooLarge)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		c.log.Error("frame payload read failed", "err", err)
		return nil, fmt.Errorf("read frame payload: %w", err)
	}

	c.log.Debug("received", "payload", string(payload))
	return json.RawMessage(payload), nil
}
