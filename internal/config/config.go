package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type StoreDriver string

const (
	DriverMemory   StoreDriver = "memory"
	DriverPostgres StoreDriver = "postgres"
	DriverSQLite   StoreDriver = "sqlite"
	DriverMongo    StoreDriver = "mongo"
)

type Config struct {
	Env             string
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	StoreDriver    StoreDriver
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	MongoURI       string
	MongoDBName    string
	MigrationsPath string

	// RedisAddr enables the Redis session store and catalog cache when set.
	RedisAddr  string
	SessionTTL time.Duration

	// KafkaBrokers enables the outbox publisher and cache consumer when set.
	KafkaBrokers []string
	SalesTopic   string

	Currency string
	Locale   string

	StockPrecheck bool
	Compensate    bool
	SaleNote      string

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// Load reads the environment, after a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "development"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		StoreDriver:    StoreDriver(strings.ToLower(getEnv("STORE_DRIVER", string(DriverMemory)))),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "pos"),
		DBPassword:     getEnv("DB_PASSWORD", "pos"),
		DBName:         getEnv("DB_NAME", "pos"),
		SQLitePath:     getEnv("SQLITE_PATH", "pos.db"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "pos"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "internal/store/migrations"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "")),
		SalesTopic:     getEnv("SALES_TOPIC", "pos-sales"),
		Currency:       getEnv("CURRENCY", "R$"),
		Locale:         getEnv("LOCALE", "pt-BR"),
		SaleNote:       getEnv("SALE_NOTE", ""),
	}

	var err error
	if cfg.DBPort, err = getInt("DB_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 8*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.StockPrecheck, err = getBool("CHECKOUT_STOCK_PRECHECK", false); err != nil {
		return nil, err
	}
	if cfg.Compensate, err = getBool("CHECKOUT_COMPENSATE", false); err != nil {
		return nil, err
	}
	failures, err := getInt("BREAKER_MAX_FAILURES", 5)
	if err != nil {
		return nil, err
	}
	if failures < 1 {
		return nil, fmt.Errorf("BREAKER_MAX_FAILURES must be positive, got %d", failures)
	}
	cfg.BreakerMaxFailures = uint32(failures)

	switch cfg.StoreDriver {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
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
