package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":       zerolog.InfoLevel,
		"debug":  zerolog.DebugLevel,
		" WARN ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"chatty": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Options{Format: "json", Output: &buf}), "planner")
	logger.Info().Str("subject", "a.mp4").Msg("planned")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "planner" || entry["subject"] != "a.mp4" || entry["message"] != "planned" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestVerboseLowersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Format: "json", Verbose: true, Output: &buf})
	logger.Debug().Msg("details")
	if !strings.Contains(buf.String(), "details") {
		t.Fatalf("expected debug output with verbose, got %q", buf.String())
	}

	buf.Reset()
	logger = New(Options{Level: "info", Format: "json", Output: &buf})
	logger.Debug().Msg("details")
	if buf.Len() != 0 {
		t.Fatalf("expected debug suppressed, got %q", buf.String())
	}
}

func TestConsoleWriterNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Output: &buf})
	logger.Info().Msg("hello")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes for non-terminal output: %q", buf.String())
	}
	if IsTerminal(&buf) {
		t.Fatal("buffer reported as terminal")
	}
}
