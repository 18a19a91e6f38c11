package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	if v, ok := entry.Entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
}

func TestConfigureInvalidLevel(t *testing.T) {
	// Ensure environment variables do not override the provided level
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("invalid", "json", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestConfigureFileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	f, err := os.CreateTemp("", "log-*.log")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	f.Close()
	defer os.Remove(f.Name())

	log := Logger()
	if err := log.Configure("debug", "text", f.Name(), 0); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
}

func TestLogMetricEmitsMetricFields(t *testing.T) {
	var buf bytes.Buffer
	log := Logger()
	log.SetOutput(&buf)

	log.LogMetric("report", "EndpointRequests", int64(7), "counter", Fields{"endpoint": "trades"})

	out := buf.String()
	for _, want := range []string{`"metric":"EndpointRequests"`, `"value":7`, `"endpoint":"trades"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestRecordRequestAndPage(t *testing.T) {
	RecordRequest("funding_history")
	RecordPage("funding_history")

	v, ok := endpoints.Load("funding_history")
	if !ok {
		t.Fatal("endpoint stat not recorded")
	}
	es := v.(*endpointStat)
	if es.requests < 1 || es.pages < 1 {
		t.Fatalf("unexpected counts: requests=%d pages=%d", es.requests, es.pages)
	}
}
