package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port"`
	GinMode       string `yaml:"gin_mode"`
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBPath        string `yaml:"db_path"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`
	StorageDir    string `yaml:"storage_dir"`
	MaxUploadMB   int    `yaml:"max_upload_mb"`
	LogLevel      string `yaml:"log_level"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_PATH, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          "8080",
		GinMode:       "debug",
		DBDriver:      "mysql",
		DBHost:        "localhost",
		DBPort:        "3306",
		DBUser:        "studioflow",
		DBPassword:    "studioflow",
		DBName:        "studioflow",
		DBPath:        "studioflow.db",
		RedisPort:     "6379",
		SessionSecret: "default-secret-key-change-me",
		StorageDir:    "./uploads",
		MaxUploadMB:   25,
		LogLevel:      "info",
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max_upload_mb must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.Port, "HTTP_PORT")
	setEnv(&cfg.GinMode, "GIN_MODE")
	setEnv(&cfg.DBDriver, "DB_DRIVER")
	setEnv(&cfg.DBHost, "DB_HOST")
	setEnv(&cfg.DBPort, "DB_PORT")
	setEnv(&cfg.DBUser, "DB_USER")
	setEnv(&cfg.DBPassword, "DB_PASSWORD")
	setEnv(&cfg.DBName, "DB_NAME")
	setEnv(&cfg.DBPath, "DB_PATH")
	setEnv(&cfg.RedisHost, "REDIS_HOST")
	setEnv(&cfg.RedisPort, "REDIS_PORT")
	setEnv(&cfg.SessionSecret, "SESSION_SECRET")
	setEnv(&cfg.StorageDir, "STORAGE_DIR")
	setEnv(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxUploadMB = n
		}
	}
}

func setEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
