package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)
	log.Info().Str("stage", "load").Int("rows", 5).Msg("dataset loaded")

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("log event is not JSON: %v\n%s", err, buf.String())
	}
	if ev["stage"] != "load" || ev["message"] != "dataset loaded" {
		t.Fatalf("event = %v", ev)
	}
	if _, ok := ev["time"]; !ok {
		t.Fatal("event missing timestamp")
	}
}

func TestNewLevels(t *testing.T) {
	if got := New(false).GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("default level = %v, want info", got)
	}
	if got := New(true).GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("debug level = %v, want debug", got)
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf).Level(zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug event emitted at info level")
	}
}
