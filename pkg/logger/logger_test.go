package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "menushell", "v1.2.3", "info", "")
	log.Debug("hidden")
	log.Info("menu rendered", "entries", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["module"] != "menushell" || rec["version"] != "v1.2.3" {
		t.Fatalf("missing module attributes: %v", rec)
	}
	if rec["entries"] != float64(4) {
		t.Fatalf("missing entries attribute: %v", rec)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "menushell", "dev", "debug", "text").Debug("loop started")
	out := buf.String()
	if !strings.Contains(out, "msg=\"loop started\"") || !strings.Contains(out, "source=") {
		t.Fatalf("unexpected text output: %q", out)
	}
}
