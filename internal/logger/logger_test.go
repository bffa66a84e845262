package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInfo_Success_Warn_Error_WriteTaggedLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Info("TAG", "info message")
	Success("TAG", "success message")
	Warn("TAG", "warn message")
	Error("TAG", "error message")

	out := buf.String()
	for _, want := range []string{"info message", "success message", "warn message", "error message", "tag=TAG"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBanner_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Banner("v1.0.0")
	Banner("")
	if !strings.Contains(buf.String(), "version=dev") {
		t.Errorf("empty version should log as dev: %s", buf.String())
	}
}

func TestSectionAndStats_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	Section("Test")
	Stats("key", 42)
	if !strings.Contains(buf.String(), "key=42") {
		t.Errorf("stats line missing value: %s", buf.String())
	}
}

func TestConfigure_InvalidLevelAndFormat(t *testing.T) {
	if err := Configure("loud", "text", "stdout", 0); err == nil {
		t.Error("expected error for invalid level")
	}
	if err := Configure("info", "xml", "stdout", 0); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestConfigure_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	if err := Configure("debug", "json", path, 0); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer Configure("info", "text", "stdout", 0)

	Debug("DB", "opened")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"opened"`) {
		t.Errorf("json log line missing message: %s", data)
	}
}

func TestConfigure_ClosesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "first.log")
	if err := Configure("info", "text", path, 0); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	f, ok := logFile.(*os.File)
	if !ok {
		t.Fatalf("logFile = %T, want *os.File", logFile)
	}

	if err := Configure("info", "text", "stdout", 0); err != nil {
		t.Fatalf("Configure stdout: %v", err)
	}
	if logFile != nil {
		t.Errorf("logFile = %v after switching to stdout", logFile)
	}
	if _, err := f.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("write to previous file: %v, want os.ErrClosed", err)
	}
}
