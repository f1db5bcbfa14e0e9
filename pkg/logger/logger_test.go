package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOutput("info", "json", &buf); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { log = nil })

	Infof("[auth] session issued for %s", "tester")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "[auth] session issued for tester" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOutput("warn", "text", &buf); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { log = nil })

	Debugf("hidden")
	Infof("hidden too")
	Warnf("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	log = nil
	Debugf("x")
	Info("x")
	Infof("x")
	Warnf("x")
	_ = WithField("k", "v")
}
