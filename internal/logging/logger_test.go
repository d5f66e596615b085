package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trakt2letterboxd/internal/logging"
)

func TestNewWritesToEveryOutputPath(t *testing.T) {
	var stderr bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "nested", "run.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{"stderr", logPath, "stderr"},
		Writer:      &stderr,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("fan out")

	if got := strings.Count(stderr.String(), "fan out"); got != 1 {
		t.Fatalf("expected one stderr line, got %d in %q", got, stderr.String())
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "fan out") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, _ := logging.WithRunID(context.Background())
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "fetcher")).Info(
		"fetched page",
		logging.String(logging.FieldList, "history"),
		logging.Int(logging.FieldPage, 2),
		logging.Error(errors.New("two words")),
	)

	line := buf.String()
	for _, want := range []string{"INFO [fetcher] fetched page", "list=history", "page=2", `error="two words"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, logging.FieldRunID) {
		t.Fatalf("console output should not include run id: %q", line)
	}
}

func TestJSONLoggerIncludesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, id := logging.WithRunID(context.Background())
	logging.WithContext(ctx, logger).Info("json message", logging.String("k", "v"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["msg"] != "json message" || payload["level"] != "info" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload[logging.FieldRunID] != id {
		t.Fatalf("expected run id %q, got %#v", id, payload[logging.FieldRunID])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", payload)
	}
}

func TestNewInvalidFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected info level filtering, got %q", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should be disabled at every level")
	}
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on bare context")
	}
}

func TestWithContextAttachesRunIDOnce(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, id := logging.WithRunID(context.Background())
	base := logging.WithContext(ctx, logger)
	component := logging.WithContext(ctx, logging.NewComponentLogger(base, "fetcher"))
	logging.WithContext(ctx, component).Info("ratings fetched", logging.Int("count", 0))

	line := buf.String()
	if got := strings.Count(line, `"`+logging.FieldRunID+`"`); got != 1 {
		t.Fatalf("expected run_id once, got %d in %s", got, line)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldRunID] != id || payload[logging.FieldComponent] != "fetcher" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestWithContextAddsNewRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	first, _ := logging.WithRunID(context.Background())
	second, id := logging.WithRunID(context.Background())
	logging.WithContext(second, logging.WithContext(first, logger)).Info("switched")

	if !strings.Contains(buf.String(), id) {
		t.Fatalf("expected second run id %q in %s", id, buf.String())
	}
}
