package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"sirsphoto/internal/config"
	"sirsphoto/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("relocation started", logging.String(logging.FieldSegment, "T001"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "sirsphoto.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "relocation started") || !strings.Contains(string(content), "segment=T001") {
		t.Fatalf("unexpected log content %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &console})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	if strings.Contains(console.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", console.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Console: &console})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	if !strings.Contains(console.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", console.String())
	}
}

func TestConsoleUsesClockTimeAndFileUsesFullTimestamp(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &console, File: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "mover").Info("photo moved", logging.String(logging.FieldSource, "in/a b.jpg"))

	line := console.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2} INFO  mover: photo moved source="in/a b.jpg"\n$`).MatchString(line) {
		t.Fatalf("unexpected console line %q", line)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z INFO  mover: photo moved`).Match(content) {
		t.Fatalf("unexpected file line %q", content)
	}
}

func TestComponentLoggerJSON(t *testing.T) {
	var console bytes.Buffer
	base, err := logging.New(logging.Options{Format: "json", Level: "info", Console: &console})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger := logging.NewComponentLogger(base, "mover")
	logger.Info("moved", logging.String(logging.FieldDestination, "/p/T001/a.jpg"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(console.Bytes()), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["component"] != "mover" || entry["msg"] != "moved" || entry["level"] != "info" {
		t.Fatalf("unexpected json entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("json entry missing ts: %v", entry)
	}
}

func TestLevelFiltersConsole(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Console: &console})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logging.WarnWithContext(logger, "shown", "test_event")

	out := console.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "WARN  shown") || !strings.Contains(out, "event_type=test_event") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored")
	logging.WarnWithContext(logger, "ignored", "test")
}
