// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package logging

import (
	"bytes"
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Timestamp: true, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if event["message"] != "hello" {
		t.Errorf("message = %v, want hello", event["message"])
	}
	if event["component"] != "test" {
		t.Errorf("component = %v, want test", event["component"])
	}
	if _, ok := event["time"]; !ok {
		t.Error("event has no timestamp")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("dropped")
	Info().Msg("dropped too")
	Warn().Msg("kept")

	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Errorf("low-level events emitted: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Errorf("warn event missing: %q", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf)

	l.Debug().Str("k", "v").Msg("captured")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if event["k"] != "v" {
		t.Errorf("k = %v, want v", event["k"])
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := NewRequestID()
		if id == "" {
			t.Fatal("NewRequestID() returned empty string")
		}
		ctx := ContextWithRequestID(context.Background(), id)
		if got := RequestIDFromContext(ctx); got != id {
			t.Errorf("RequestIDFromContext() = %q, want %q", got, id)
		}
	})

	t.Run("absent id", func(t *testing.T) {
		if got := RequestIDFromContext(context.Background()); got != "" {
			t.Errorf("RequestIDFromContext() = %q, want empty", got)
		}
	})

	t.Run("ctx logger carries the id", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: "info", Format: "json", Output: &buf})
		defer Init(DefaultConfig())

		ctx := ContextWithRequestID(context.Background(), "req-123")
		logger := Ctx(ctx)
		logger.Info().Msg("tagged")

		var event map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if event["request_id"] != "req-123" {
			t.Errorf("request_id = %v, want req-123", event["request_id"])
		}
	})
}
