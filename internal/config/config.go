package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings. The datastore is only
// probed by the health endpoint; leaving Host empty disables it entirely.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a datastore has been configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// StreamtapeConfig holds credentials and endpoints for the remote
// video-hosting provider. Authentication is query-parameter based.
type StreamtapeConfig struct {
	APIBase   string
	Login     string
	Key       string
	FolderID  string
	EmbedBase string
}

// SourceStrategy selects how upload bytes are materialized before relaying.
type SourceStrategy string

const (
	// StrategyStream relays the live multipart stream without local buffering.
	StrategyStream SourceStrategy = "stream"
	// StrategyDisk buffers the upload to a temporary file first.
	StrategyDisk SourceStrategy = "disk"
	// StrategyBuffer holds the whole upload in memory. Only sensible for
	// small files; kept for parity with the other strategies.
	StrategyBuffer SourceStrategy = "buffer"
)

// UploadConfig tunes the upload relay path. NegotiateTimeout bounds the
// upload-URL handshake; RelayTimeout bounds the byte transfer itself and is
// deliberately much longer since large media files dominate wall-clock time.
type UploadConfig struct {
	Strategy         SourceStrategy
	TempDir          string
	NegotiateTimeout time.Duration
	RelayTimeout     time.Duration
	MaxUploadBytes   int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port          string
	AllowedOrigin string
	Streamtape    StreamtapeConfig
	Upload        UploadConfig
	Database      DatabaseConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		Streamtape: StreamtapeConfig{
			APIBase:   getEnv("STREAMTAPE_API_BASE", "https://api.streamtape.com"),
			Login:     getEnv("STREAMTAPE_LOGIN", ""),
			Key:       getEnv("STREAMTAPE_KEY", ""),
			FolderID:  getEnv("STREAMTAPE_FOLDER", ""),
			EmbedBase: getEnv("STREAM_EMBED_BASE", "https://streamtape.com/e/"),
		},
		Upload: UploadConfig{
			Strategy:         parseStrategy(getEnv("UPLOAD_STRATEGY", string(StrategyStream))),
			TempDir:          getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
			NegotiateTimeout: time.Duration(getEnvInt("NEGOTIATE_TIMEOUT_SEC", 60)) * time.Second,
			RelayTimeout:     time.Duration(getEnvInt("RELAY_TIMEOUT_SEC", 600)) * time.Second,
			// Just under 2 GiB so the default still fits an int on
			// 32-bit targets.
			MaxUploadBytes:   getEnvInt("MAX_UPLOAD_BYTES", 1<<31-1),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
	}
}

// parseStrategy falls back to streaming for unknown values rather than
// failing startup; the strategy is an operational knob, not an invariant.
func parseStrategy(v string) SourceStrategy {
	switch SourceStrategy(v) {
	case StrategyStream, StrategyDisk, StrategyBuffer:
		return SourceStrategy(v)
	}
	return StrategyStream
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
