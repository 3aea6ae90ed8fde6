package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	// ErrMissingBaseURL is returned when CONVOSO_API_BASE_URL is not set
	ErrMissingBaseURL = errors.New("CONVOSO_API_BASE_URL is required")
	// ErrMissingAuthToken is returned when CONVOSO_AUTH_TOKEN is not set
	ErrMissingAuthToken = errors.New("CONVOSO_AUTH_TOKEN is required")
)

// MaxPerformanceChunkSize keeps one multi-row insert of ten-column
// performance rows under the Postgres limit of 65535 bind parameters
const MaxPerformanceChunkSize = 65535 / 10

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Upstream
	ConvosoBaseURL        string
	ConvosoAuthToken      string
	AppointmentStatusIDs  string
	EmailSentStatusIDs    string
	ConvosoTimeout        time.Duration
	CallLogPageLimit      int
	MaxCallLogs           int
	ModalLogLimit         int
	LeadLookupConcurrency int
	PerformanceChunkSize  int

	// Persistence
	DatabaseURL    string
	DBMaxOpenConns int

	// Daily sync
	SyncEnabled  bool
	SyncSchedule string
	SyncTimezone string

	ReferenceDataFile string

	// Auth
	AuthEnabled bool
	OIDCIssuer  string

	// WebSocket
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// VerifyTokenSignatures reports whether JWT signatures must be checked
// against the OIDC issuer. Only an explicit development environment skips it.
func (c *Config) VerifyTokenSignatures() bool {
	return !c.IsDevelopment()
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:                 getEnv("PORT", "3001"),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Environment:          getEnv("ENV", "production"),
		ConvosoBaseURL:       strings.TrimRight(os.Getenv("CONVOSO_API_BASE_URL"), "/"),
		ConvosoAuthToken:     os.Getenv("CONVOSO_AUTH_TOKEN"),
		AppointmentStatusIDs: strings.TrimSpace(os.Getenv("CONVOSO_APPOINTMENT_STATUS_IDS")),
		EmailSentStatusIDs:   strings.TrimSpace(os.Getenv("CONVOSO_EMAIL_SENT_STATUS_IDS")),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SyncSchedule:         getEnv("SYNC_SCHEDULE", "0 3 * * *"),
		SyncTimezone:         getEnv("SYNC_TIMEZONE", "America/New_York"),
		ReferenceDataFile:    os.Getenv("REFERENCE_DATA_FILE"),
		OIDCIssuer:           os.Getenv("OIDC_ISSUER"),
	}

	if config.ConvosoBaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if config.ConvosoAuthToken == "" {
		return nil, ErrMissingAuthToken
	}

	timeout, err := getInt("CONVOSO_TIMEOUT", 60)
	if err != nil {
		return nil, err
	}
	config.ConvosoTimeout = time.Duration(timeout) * time.Second

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"CALL_LOG_PAGE_LIMIT", 500, &config.CallLogPageLimit},
		{"MAX_CALL_LOGS", 50000, &config.MaxCallLogs},
		{"MODAL_LOG_LIMIT", 5000, &config.ModalLogLimit},
		{"LEAD_LOOKUP_CONCURRENCY", 16, &config.LeadLookupConcurrency},
		{"PERF_LOG_CHUNK_SIZE", 500, &config.PerformanceChunkSize},
		{"DB_MAX_OPEN_CONNS", 10, &config.DBMaxOpenConns},
	}
	for _, v := range ints {
		n, err := getInt(v.key, v.fallback)
		if err != nil {
			return nil, err
		}
		*v.dst = n
	}

	if config.PerformanceChunkSize > MaxPerformanceChunkSize {
		return nil, fmt.Errorf("invalid PERF_LOG_CHUNK_SIZE: must not exceed %d", MaxPerformanceChunkSize)
	}

	if config.SyncEnabled, err = getBool("SYNC_ENABLED", true); err != nil {
		return nil, err
	}
	if config.AuthEnabled, err = getBool("AUTH_ENABLED", false); err != nil {
		return nil, err
	}

	// Parse WebSocket timeouts
	wsReadTimeout, err := getPositiveInt("WS_READ_TIMEOUT", 60)
	if err != nil {
		return nil, err
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := getPositiveInt("WS_WRITE_TIMEOUT", 10)
	if err != nil {
		return nil, err
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	n, err := getInt(key, defaultValue)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
