package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDataDir               = "DATA_DIR"
	envLogLevel              = "LOG_LEVEL"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envRateLimitPerSecond    = "RATE_LIMIT_PER_SECOND"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDataDir            = "data"
	defaultLogLevel           = "info"
	defaultMaxUploadSize      = int64(2 * 1024 * 1024 * 1024)
	defaultRatePerSecond      = 100
	defaultRateBurst          = 200

	errPortRequiredFmt         = "PORT must be set"
	errDataDirRequiredFmt      = "DATA_DIR must be set"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	App     AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig pins the on-disk layout: the media library tree, the database
// file, and the bundle staging area all live under one data directory so a
// single volume mount captures the whole state.
type StorageConfig struct {
	DataDir string
}

type AppConfig struct {
	LogLevel      string
	MaxUploadSize int64
	RatePerSecond int
	RateBurst     int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Storage: StorageConfig{
			DataDir: getEnv(envDataDir, defaultDataDir),
		},
		App: AppConfig{
			LogLevel:      getEnv(envLogLevel, defaultLogLevel),
			MaxUploadSize: getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
			RatePerSecond: getIntEnv(envRateLimitPerSecond, defaultRatePerSecond),
			RateBurst:     getIntEnv(envRateLimitBurst, defaultRateBurst),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf(errDataDirRequiredFmt)
	}

	return nil
}

// LibraryRoot is where project folders live.
func (c *StorageConfig) LibraryRoot() string {
	return filepath.Join(c.DataDir, "library")
}

// StagingRoot holds bundle directories awaiting import.
func (c *StorageConfig) StagingRoot() string {
	return filepath.Join(c.DataDir, "state", "bundles")
}

// DatabasePath is the SQLite file.
func (c *StorageConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "state", "library.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
