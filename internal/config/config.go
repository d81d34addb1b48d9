package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	pkgcfg "github.com/Skotchmaster/shofy/pkg/config"
	"github.com/Skotchmaster/shofy/pkg/db"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string
	AutoMigrate bool

	ShutdownTimeout time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Notice: %s not loaded: %v. Using system environment variables", envFile, err)
		}
	}

	cfg := &Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "shofy"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    pkgcfg.EnvDefault("DB_DRIVER", db.DriverPostgres),
		DatabaseURL: pkgcfg.EnvDefault("DATABASE_URL", ""),
		AutoMigrate: pkgcfg.EnvBoolDefault("DB_AUTO_MIGRATE", true),

		ShutdownTimeout: pkgcfg.EnvDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),

		KafkaBrokers: pkgcfg.CSV(pkgcfg.EnvDefault("KAFKA_BROKERS", "")),

		ESURL:      pkgcfg.EnvDefault("ES_URL", ""),
		ESUser:     pkgcfg.EnvDefault("ES_USER", ""),
		ESPassword: pkgcfg.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "products"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return errors.Join(
		pkgcfg.RequireOneOf(c.DBDriver, "DB_DRIVER", db.DriverPostgres, db.DriverSQLite),
		pkgcfg.RequireNonEmpty(c.DatabaseURL, "DATABASE_URL"),
	)
}
