package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func useBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	prevMode := mode
	SetLogger(NewConsoleLogger(&buf))
	t.Cleanup(func() {
		SetLogger(NewConsoleLogger(os.Stderr))
		SetLogMode(prevMode)
	})
	return &buf
}

func TestModeGating(t *testing.T) {
	buf := useBuffer(t)
	SetLogMode(WarningMode)
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warningf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below the mode were printed:\n%s", out)
	}
	if !strings.Contains(out, "[WARNING] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("missing messages:\n%s", out)
	}
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]ModeFlag{
		"debug": DebugMode, "INFO": InfoMode, "warn": WarningMode, "error": ErrorMode, "silent": SilentMode,
	} {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("ParseMode accepted an unknown level")
	}
}

func TestLogFile(t *testing.T) {
	useBuffer(t)
	path := filepath.Join(t.TempDir(), "run.log")
	c := &LogConfig{Logfile: path, MaxSize: 1, MaxAge: 1, Level: "debug"}
	if err := c.SetLogger(); err != nil {
		t.Fatalf("SetLogger: %v", err)
	}
	Debugf("written to file")
	Shutdown()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] written to file") {
		t.Fatalf("log file content:\n%s", data)
	}
}

func TestLogConfigBadLevel(t *testing.T) {
	c := &LogConfig{Level: "chatty"}
	if err := c.SetLogger(); err == nil {
		t.Fatalf("SetLogger accepted an unknown level")
	}
}
