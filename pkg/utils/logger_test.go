package utils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type logRecord struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
	CID   string `json:"cid"`
}

func TestLogger_JSONModeWritesJSONWithCID(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".aurax", "aurax.log")

	l := NewLogger(path, true)
	l.SetConsole(nil)
	l.SetCorrelationID("abc123")
	l.Log("hello world")
	_ = l.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	var lastLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lastLine = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	var rec logRecord
	if err := json.Unmarshal([]byte(lastLine), &rec); err != nil {
		t.Fatalf("unmarshal: %v; content=%q", err, lastLine)
	}
	if rec.Level != "info" || rec.Msg != "hello world" || rec.CID != "abc123" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestLogger_ProcessStepEchoesToConsole(t *testing.T) {
	var file, console bytes.Buffer
	l := NewWriterLogger(&file, &console, false)

	l.LogProcessStep("Planning project...")
	l.LogError(errors.New("boom"))

	if got := console.String(); got != "Planning project...\n" {
		t.Fatalf("unexpected console output %q", got)
	}
	if !strings.Contains(file.String(), "Process Step: Planning project...") {
		t.Fatalf("step missing from log: %q", file.String())
	}
	if !strings.Contains(file.String(), "Error: boom") {
		t.Fatalf("error missing from log: %q", file.String())
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	var l *Logger
	l.Log("ignored")
	l.Logf("ignored %d", 1)
	l.LogError(errors.New("ignored"))
	l.LogProcessStep("ignored")
	l.SetCorrelationID("x")
	if err := l.Close(); err != nil {
		t.Fatalf("close on nil logger: %v", err)
	}
}
