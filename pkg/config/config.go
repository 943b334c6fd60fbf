package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string `validate:"required"`

	ServerPort int    `validate:"gt=0,lt=65536"`
	PublicURL  string `validate:"required,url"`
	LogLevel   string `validate:"omitempty,oneof=debug info warn error"`

	DatabaseDriver string `validate:"required,oneof=postgres sqlite"`
	DatabaseURL    string `validate:"required"`

	JWTAccessSecret []byte

	KafkaBrokers []string `validate:"dive,hostname_port"`

	ElasticURL      string `validate:"omitempty,url"`
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string `validate:"required"`

	RedisURL string `validate:"omitempty,url"`
}

// LoadDotEnv reads path into the environment when the file exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

func Load() Config {
	publicURL := EnvDefault("PUBLIC_URL", "http://localhost:8080/")
	if !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "store"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		PublicURL:  publicURL,
		LogLevel:   strings.ToLower(os.Getenv("LOG_LEVEL")),

		DatabaseDriver: EnvDefault("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ElasticURL:      os.Getenv("ES_URL"),
		ElasticUser:     os.Getenv("ES_USER"),
		ElasticPassword: os.Getenv("ES_PASSWORD"),
		ElasticIndex:    EnvDefault("ES_INDEX", "products"),

		RedisURL: os.Getenv("REDIS_URL"),
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
