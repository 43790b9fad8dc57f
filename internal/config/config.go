package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the office pages service
// and the officectl tooling.
type Config struct {
	DBPath          string
	ServerPort      int
	LogLevel        string
	SentryDSN       string
	Environment     string
	ShutdownGrace   time.Duration
	SheetID         string
	FrandevSheetID  string
	SheetRange      string
	GoogleAPIKey    string
	ImportBatchSize int
	RateLimitRPS    float64
	RateLimitBurst  int
	RateLimitTTL    time.Duration
}

const (
	defaultDBPath          = "./data/offices.db"
	defaultServerPort      = 8080
	defaultLogLevel        = "info"
	defaultEnvironment     = "development"
	defaultShutdownGrace   = 10 * time.Second
	defaultSheetRange      = "Sheet1"
	defaultImportBatchSize = 100
	defaultRateLimitRPS    = 25.0
	defaultRateLimitBurst  = 50
	defaultRateLimitTTL    = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:         getEnv("DB_PATH", defaultDBPath),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Environment:    getEnv("ENV", defaultEnvironment),
		ShutdownGrace:  defaultShutdownGrace,
		SheetID:        os.Getenv("SHEET_ID"),
		FrandevSheetID: os.Getenv("FRANDEV_SHEET_ID"),
		SheetRange:     getEnv("SHEET_RANGE", defaultSheetRange),
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		RateLimitRPS:   defaultRateLimitRPS,
		RateLimitBurst: defaultRateLimitBurst,
		RateLimitTTL:   defaultRateLimitTTL,
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	batchValue := getEnv("IMPORT_BATCH_SIZE", strconv.Itoa(defaultImportBatchSize))
	batchSize, err := strconv.Atoi(batchValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid IMPORT_BATCH_SIZE value: %s", batchValue)
	}
	if batchSize <= 0 {
		return nil, eris.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", batchSize)
	}
	cfg.ImportBatchSize = batchSize

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
