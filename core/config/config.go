package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host    string `mapstructure:"SERVER_HOST"`
	Port    int    `mapstructure:"SERVER_PORT"`
	BaseURL string `mapstructure:"SERVER_BASE_URL"`
	Env     string `mapstructure:"APP_ENV"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  int    `mapstructure:"JWT_ACCESS_TTL_MINUTES"`
	RefreshTokenTTL int    `mapstructure:"JWT_REFRESH_TTL_MINUTES"`
}

type WorkerConfig struct {
	Concurrency     int    `mapstructure:"WORKER_CONCURRENCY"`
	ExpirySweepCron string `mapstructure:"WORKER_EXPIRY_SWEEP_CRON"`
}

type LogConfig struct {
	Level string `mapstructure:"LOG_LEVEL"`
}

// AdminConfig seeds the initial administrator account on first boot.
type AdminConfig struct {
	Email    string `mapstructure:"ADMIN_EMAIL"`
	Password string `mapstructure:"ADMIN_PASSWORD"`
	Name     string `mapstructure:"ADMIN_NAME"`
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Worker   WorkerConfig
	Log      LogConfig
	Admin    AdminConfig
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and environment variables into the global
// config. Must be called before Get.
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	sections := map[string]any{
		"server":   &cfg.Server,
		"database": &cfg.Database,
		"redis":    &cfg.Redis,
		"jwt":      &cfg.JWT,
		"worker":   &cfg.Worker,
		"log":      &cfg.Log,
		"admin":    &cfg.Admin,
	}
	for name, target := range sections {
		if err := v.Unmarshal(target); err != nil {
			return nil, fmt.Errorf("unmarshal %s config: %w", name, err)
		}
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// every key needs a default registered so AutomaticEnv picks it up
	// during Unmarshal
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("SERVER_BASE_URL", "")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "secret_santa")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TTL_MINUTES", 60)
	v.SetDefault("JWT_REFRESH_TTL_MINUTES", 60*24*7)

	v.SetDefault("WORKER_CONCURRENCY", 5)
	v.SetDefault("WORKER_EXPIRY_SWEEP_CRON", "@every 1h")

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_NAME", "Administrator")
}

// Get returns the loaded config. Panics if Load was never called; use
// GetSafe in paths that may run before bootstrap completes.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
