package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("ENV", "")
	t.Setenv("SHEET_ID", "")
	t.Setenv("FRANDEV_SHEET_ID", "")
	t.Setenv("SHEET_RANGE", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("IMPORT_BATCH_SIZE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.SheetRange != defaultSheetRange {
		t.Errorf("expected default sheet range %q, got %q", defaultSheetRange, cfg.SheetRange)
	}

	if cfg.ImportBatchSize != defaultImportBatchSize {
		t.Errorf("expected default batch size %d, got %d", defaultImportBatchSize, cfg.ImportBatchSize)
	}

	if cfg.SheetID != "" {
		t.Errorf("expected empty sheet ID, got %q", cfg.SheetID)
	}

	if cfg.GoogleAPIKey != "" {
		t.Errorf("expected empty Google API key, got %q", cfg.GoogleAPIKey)
	}

	if cfg.SentryDSN != "" {
		t.Errorf("expected empty Sentry DSN, got %q", cfg.SentryDSN)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/offices.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("SHEET_ID", "sheet-123")
	t.Setenv("FRANDEV_SHEET_ID", "frandev-456")
	t.Setenv("SHEET_RANGE", "Pages")
	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("IMPORT_BATCH_SIZE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/offices.db" {
		t.Errorf("expected DB path %q, got %q", "/tmp/offices.db", cfg.DBPath)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level %q, got %q", "debug", cfg.LogLevel)
	}

	if cfg.SentryDSN != "dsn" {
		t.Errorf("expected Sentry DSN %q, got %q", "dsn", cfg.SentryDSN)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment %q, got %q", "production", cfg.Environment)
	}

	if cfg.SheetID != "sheet-123" {
		t.Errorf("expected sheet ID %q, got %q", "sheet-123", cfg.SheetID)
	}

	if cfg.FrandevSheetID != "frandev-456" {
		t.Errorf("expected frandev sheet ID %q, got %q", "frandev-456", cfg.FrandevSheetID)
	}

	if cfg.SheetRange != "Pages" {
		t.Errorf("expected sheet range %q, got %q", "Pages", cfg.SheetRange)
	}

	if cfg.GoogleAPIKey != "secret" {
		t.Errorf("expected Google API key %q, got %q", "secret", cfg.GoogleAPIKey)
	}

	if cfg.ImportBatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.ImportBatchSize)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SERVER_PORT")
	} else if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Fatalf("expected error to mention SERVER_PORT, got %v", err)
	}
}

func TestLoadRejectsInvalidBatchSize(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("IMPORT_BATCH_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive IMPORT_BATCH_SIZE")
	}
}
