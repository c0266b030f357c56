package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := AtomicWrite(path, []byte(`{"riskScore":8}`), 0o600); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}
	if err := AtomicWrite(path, []byte(`{"riskScore":3}`), 0o600); err != nil {
		t.Fatalf("AtomicWrite overwrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != `{"riskScore":3}` {
		t.Fatalf("content = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
	if !Exists(path) || Exists(path+".missing") {
		t.Fatalf("Exists reported wrong state")
	}
}

func TestReadText(t *testing.T) {
	got, err := ReadText(strings.NewReader("The lessee shall"), 64)
	if err != nil || got != "The lessee shall" {
		t.Fatalf("ReadText = %q, %v", got, err)
	}
	if _, err := ReadText(strings.NewReader(strings.Repeat("a", 65)), 64); err == nil {
		t.Fatalf("expected size error")
	}
	if _, err := ReadText(strings.NewReader("\xff\xfe"), 64); err == nil {
		t.Fatalf("expected UTF-8 error")
	}
}

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terms.txt")
	if err := os.WriteFile(path, []byte("privacy terms"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, err := ReadTextFile(path, 1024); err != nil || got != "privacy terms" {
		t.Fatalf("ReadTextFile = %q, %v", got, err)
	}
	if _, err := ReadTextFile(dir, 1024); err == nil {
		t.Fatalf("expected error for directory")
	}
	if _, err := ReadTextFile(filepath.Join(dir, "none.txt"), 1024); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
