package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Speech   SpeechConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SpeechConfig struct {
	CacheDir string // flat directory of {fingerprint}.audio files
	TempDir  string // fallback backend's save/read spool directory

	// Cloud backend credentials, checked in order. Absence of all three is
	// not an error; it routes synthesis to the fallback backends.
	GoogleAPIKey          string
	GoogleCredentialsFile string
	GoogleProjectID       string
	GoogleBaseURL         string

	OpenAIKey   string
	OpenAIModel string

	TranslateBaseURL string

	ProviderTimeoutSecs int
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	providerTimeout, err := getEnvInt("SPEECH_PROVIDER_TIMEOUT", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid SPEECH_PROVIDER_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Speech: SpeechConfig{
			CacheDir:              getEnv("SPEECH_CACHE_DIR", "audio-cache"),
			TempDir:               getEnv("SPEECH_TEMP_DIR", os.TempDir()),
			GoogleAPIKey:          getEnv("GOOGLE_TTS_API_KEY", ""),
			GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			GoogleProjectID:       getEnv("GOOGLE_PROJECT_ID", ""),
			GoogleBaseURL:         getEnv("GOOGLE_TTS_BASE_URL", ""),
			OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:           getEnv("TTS_OPENAI_MODEL", ""),
			TranslateBaseURL:      getEnv("TRANSLATE_TTS_BASE_URL", ""),
			ProviderTimeoutSecs:   providerTimeout,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
