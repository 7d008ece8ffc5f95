package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriterEmitsJSON(t *testing.T) {
	t.Setenv("ENV", "")
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "json")

	log.Debug().Msg("hidden")
	log.Info().Str("project", "Alpha").Msg("loaded")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "calculadora" || line["project"] != "Alpha" || line["message"] != "loaded" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"weird":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v, want %v", in, got, want)
		}
	}
}
