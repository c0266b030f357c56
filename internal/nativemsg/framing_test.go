package nativemsg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestWriteReadMessage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	raw := buf.Bytes()
	if n := binary.LittleEndian.Uint32(raw[:4]); int(n) != len(raw)-4 {
		t.Fatalf("length prefix = %d, body = %d bytes", n, len(raw)-4)
	}

	got, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if string(got) != `{"type":"ping"}` {
		t.Fatalf("body = %q", got)
	}
	if _, err := ReadMessage(&buf); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReadMessage_Truncated(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		_, err := ReadMessage(bytes.NewReader([]byte{0x05, 0x00}))
		if err == nil || err == io.EOF {
			t.Fatalf("expected truncation error, got %v", err)
		}
	})
	t.Run("body", func(t *testing.T) {
		_, err := ReadMessage(bytes.NewReader([]byte{0x05, 0x00, 0x00, 0x00, '{'}))
		if err == nil || err == io.EOF {
			t.Fatalf("expected truncation error, got %v", err)
		}
	})
}

func TestReadMessage_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, MaxMessageBytes+1)
	buf.Write(header)
	buf.Write(make([]byte, MaxMessageBytes+1))
	if err := WriteMessage(&buf, map[string]string{"type": "ping"}); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadMessage(&buf); !errors.Is(err, ErrMessageTooLarge) {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
	got, err := ReadMessage(&buf)
	if err != nil || string(got) != `{"type":"ping"}` {
		t.Fatalf("stream not realigned after oversized message: %q, %v", got, err)
	}
}
