package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	HTTPAddr  string

	UploadStepDelay    time.Duration
	UploadProcessDelay time.Duration
	AnalysisDelay      time.Duration
	UploadMaxBytes     int64

	ExportInterval time.Duration

	LogLevel string
	LogDev   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "carbonwise.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		HTTPAddr:  getEnv("HTTP_ADDR", ":5000"),

		UploadStepDelay:    getEnvMillis("UPLOAD_STEP_DELAY_MS", 100),
		UploadProcessDelay: getEnvMillis("UPLOAD_PROCESS_DELAY_MS", 2000),
		AnalysisDelay:      getEnvMillis("ANALYSIS_DELAY_MS", 3000),
		UploadMaxBytes:     int64(getEnvInt("UPLOAD_MAX_BYTES", 32<<20)),

		ExportInterval: time.Duration(getEnvInt("EXPORT_INTERVAL_SEC", 0)) * time.Second,

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDev:   getEnvBool("LOG_DEV", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvMillis reads a non-negative millisecond count.
func getEnvMillis(key string, fallback int) time.Duration {
	ms := getEnvInt(key, fallback)
	if ms < 0 {
		ms = fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
