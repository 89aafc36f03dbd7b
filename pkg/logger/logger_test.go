package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Service: "users-api", Output: &buf})

	log.Info().Msg("hello")
	log.Debug().Msg("filtered")

	var event map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event); err != nil {
		t.Fatalf("expected a single JSON event, got %q: %v", buf.String(), err)
	}
	if event["service"] != "users-api" || event["message"] != "hello" {
		t.Fatalf("unexpected event: %v", event)
	}
	caller, _ := event["caller"].(string)
	if !strings.Contains(caller, "logger_test.go:") {
		t.Fatalf("expected caller of the log call, got %q", caller)
	}
}

func TestInit_Singleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	l := Get()
	l.Info().Msg("once")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected only the first Init to take effect")
	}
}

func TestGet_BeforeInitPanics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}
