package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/repository"
	"github.com/fjod/go_cart/purchases-service/internal/service"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	DB       repository.Credentials

	AmbassadorAddr    string
	AmbassadorTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string

	Payme    service.PaymeConfig
	PaymeKey string

	JWTSecret    string
	JWTAlgorithm string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
}

// Load reads an optional .env file, then the environment. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	var errs []error
	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8000"),
		DB: repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getInt("DB_PORT", 5432, &errs),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "purchases"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),
		},
		AmbassadorAddr: net.JoinHostPort(
			getEnv("AMBASSADOR_GRPC_HOST", "localhost"),
			getEnv("AMBASSADOR_GRPC_PORT", "50051"),
		),
		AmbassadorTimeout: getDuration("AMBASSADOR_TIMEOUT", 3*time.Second, &errs),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "")),
		Payme: service.PaymeConfig{
			MerchantID:   getEnv("PAYME_ID", ""),
			TestMode:     getBool("PAYME_TEST_MODE", true, &errs),
			AccountField: getEnv("PAYME_ACCOUNT_FIELD", "payment_id"),
		},
		PaymeKey:        getEnv("PAYME_KEY", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAlgorithm:    getEnv("JWT_ALGORITHM", "HS256"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second, &errs),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		Debug:           getBool("DEBUG", false, &errs),
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return defaultValue
	}
	if v <= 0 {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: must be positive", key, raw))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
