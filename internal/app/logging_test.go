package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerNop(t *testing.T) {
	l, err := NewLogger("", "info")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.RunStarted(1)
	l.DocumentApplied("a.go", 2)
	l.Close()
}

func TestNilLoggerSafe(t *testing.T) {
	var l *Logger
	l.RunStarted(1)
	l.DocumentApplied("a.go", 1)
	l.DocumentFailed("a.go", errors.New("boom"))
	l.OpenFailed("a.go", errors.New("boom"))
	l.FileSaved("a.go", false)
	l.RunFinished(0, 0, false)
	l.Close()
}

func TestNewLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	l, err := NewLogger(path, "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.DocumentApplied("a.go", 2)
	l.RunFinished(1, 2, false)
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	for _, fragment := range []string{
		`"document applied"`,
		`"path":"a.go"`,
		`"edits":2`,
		`"run finished"`,
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("log missing %s:\n%s", fragment, text)
		}
	}
}

func TestNewLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	l, err := NewLogger(path, "error")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.DocumentApplied("a.go", 1)
	l.DocumentFailed("b.go", errors.New("no match"))
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "document applied") {
		t.Error("info entry written at error level")
	}
	if !strings.Contains(text, "document failed") {
		t.Errorf("error entry missing:\n%s", text)
	}
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	if _, err := NewLogger(path, "chatty"); err == nil {
		t.Error("expected error for invalid level")
	}
}
