package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("catering-api", &buf, slog.LevelDebug)

	log.Info("order_created", "Order created", "req-1", map[string]interface{}{"order_id": "abc"})

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["service"] != "catering-api" {
		t.Errorf("service = %v, want catering-api", record["service"])
	}
	if record["action"] != "order_created" {
		t.Errorf("action = %v, want order_created", record["action"])
	}
	if record["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", record["request_id"])
	}
	details, ok := record["details"].(map[string]interface{})
	if !ok || details["order_id"] != "abc" {
		t.Errorf("details = %v, want order_id=abc", record["details"])
	}
}

func TestLogger_ErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("catering-api", &buf, slog.LevelInfo)

	log.Debug("ignored", "below level", "", nil)
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}

	log.Error("db_query_failed", "query failed", "req-2", errors.New("boom"), nil)

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	group, ok := record["error"].(map[string]interface{})
	if !ok || group["msg"] != "boom" {
		t.Errorf("error group = %v, want msg=boom", record["error"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}
