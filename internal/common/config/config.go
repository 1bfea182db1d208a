package config

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	StoreDriver    string
	DBPath         string
	MigrationsPath string
	SeedSample     bool

	ExportDir      string
	TargetWidth    float64
	RenderCacheTTL time.Duration
	SessionTTL     time.Duration

	LogLevel    string
	CORSOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3003")
	v.SetDefault("env", "development")
	v.SetDefault("read_timeout", 10)
	v.SetDefault("write_timeout", 10)

	v.SetDefault("store_driver", StoreMemory)
	v.SetDefault("elevation_db_path", "data/db/elevation.db")
	v.SetDefault("migrations_path", "migrations/001_init_elevation.sql")
	v.SetDefault("seed_sample", true)

	v.SetDefault("export_dir", "exports")
	v.SetDefault("target_width", 800.0)
	v.SetDefault("render_cache_ttl", 5*time.Minute)
	v.SetDefault("session_ttl", 30*time.Minute)

	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", "*")
}

// Load загружает конфигурацию из переменных окружения
// (PORT, ENV, STORE_DRIVER, ...) и, если задан ELEVATION_CONFIG, из файла.
func Load() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("elevation_config"); path != "" {
		// без файла работаем на окружении и значениях по умолчанию
		if err := readConfigFile(v, path); err != nil {
			log.Warnf("[CONFIG] %v", err)
		}
	}

	return fromViper(v)
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:         v.GetString("port"),
		Environment:  v.GetString("env"),
		ReadTimeout:  v.GetInt("read_timeout"),
		WriteTimeout: v.GetInt("write_timeout"),

		StoreDriver:    strings.ToLower(v.GetString("store_driver")),
		DBPath:         v.GetString("elevation_db_path"),
		MigrationsPath: v.GetString("migrations_path"),
		SeedSample:     v.GetBool("seed_sample"),

		ExportDir:      v.GetString("export_dir"),
		TargetWidth:    v.GetFloat64("target_width"),
		RenderCacheTTL: v.GetDuration("render_cache_ttl"),
		SessionTTL:     v.GetDuration("session_ttl"),

		LogLevel:    strings.ToLower(v.GetString("log_level")),
		CORSOrigins: splitList(v.GetString("cors_origins")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
