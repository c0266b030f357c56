package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirm_NonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.Confirm("Delete?", false)
	if !errors.Is(err, ErrNonInteractive) {
		t.Fatalf("expected ErrNonInteractive, got ok=%v err=%v", ok, err)
	}
}

func TestConfirm_Force(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("n\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.Confirm("Delete?", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true for forced confirm")
	}
}

func TestConfirm_Interactive(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"y", true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			c := Confirmer{
				In:            bytes.NewBufferString(tt.input),
				IsInteractive: func() bool { return true },
			}
			ok, err := c.Confirm("Delete?", false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("Confirm(%q) = %v, want %v", tt.input, ok, tt.want)
			}
		})
	}
}

func TestConfirmReplaceKey_WritesQuestion(t *testing.T) {
	var out bytes.Buffer
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		Out:           &out,
		IsInteractive: func() bool { return true },
	}
	if ok, err := c.ConfirmReplaceKey("anthropic", false); err != nil || !ok {
		t.Fatalf("ConfirmReplaceKey = %v, %v", ok, err)
	}
	if !strings.Contains(out.String(), "anthropic") {
		t.Fatalf("question missing provider: %q", out.String())
	}
}

func TestConfirmOverwrite_NonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		IsInteractive: func() bool { return false },
	}
	if ok, err := c.ConfirmOverwrite("out.json", false); err == nil {
		t.Fatalf("expected error for non-interactive confirm, got ok=%v", ok)
	}
}
