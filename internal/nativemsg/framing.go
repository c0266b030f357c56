// Package nativemsg implements the browser native-messaging host that the
// extension talks to over stdin/stdout.
package nativemsg

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageBytes caps a single message in either direction.
const MaxMessageBytes = 1 << 20

var ErrMessageTooLarge = errors.New("native message exceeds size limit")

// ReadMessage reads one length-prefixed message. Oversized messages are
// drained so the stream stays aligned, then ErrMessageTooLarge is returned.
// io.EOF is returned only when the stream ends cleanly between messages.
func ReadMessage(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read message header: %w", err)
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint32(header[:])
	if n > MaxMessageBytes {
		if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
			return nil, fmt.Errorf("drain oversized message: %w", err)
		}
		return nil, ErrMessageTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}
	return buf, nil
}

// WriteMessage JSON-encodes v and writes it with a length prefix.
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if len(body) > MaxMessageBytes {
		return ErrMessageTooLarge
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := w.Write(append(header[:], body...)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
