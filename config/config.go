package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	Upload     UploadConfig     `yaml:"upload"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	GateRateLimit   float64 `yaml:"gate_rate_limit_per_sec"`
	GateRateBurst   int     `yaml:"gate_rate_burst"`
	VehicleCacheTTL int     `yaml:"vehicle_cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds the token signing configuration.
type AuthConfig struct {
	SecretKey     string        `yaml:"secret_key"`
	TokenTTLDays  int           `yaml:"token_ttl_days"`
	TokenTTL      time.Duration `yaml:"-"` // Ignored by YAML parser
}

// PushConfig holds the outbound push-notification collaborator settings.
type PushConfig struct {
	ExpoURL        string        `yaml:"expo_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
	VAPIDPublicKey string        `yaml:"vapid_public_key"`
	VAPIDPrivate   string        `yaml:"vapid_private_key"`
	Subject        string        `yaml:"subject"`
	TTL            int           `yaml:"ttl"`
}

// UploadConfig holds the profile-picture upload settings.
type UploadConfig struct {
	Dir string `yaml:"dir"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// Load reads the configuration from the given path and applies environment
// overrides for the deployment-sensitive values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides win over the file.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Auth.SecretKey = v
	}
	if v := os.Getenv("UPLOAD_FOLDER"); v != "" {
		cfg.Upload.Dir = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.GateRateLimit <= 0 {
		cfg.Server.GateRateLimit = 10
	}
	if cfg.Server.GateRateBurst <= 0 {
		cfg.Server.GateRateBurst = 5
	}
	if cfg.Server.VehicleCacheTTL <= 0 {
		cfg.Server.VehicleCacheTTL = 60
	}
	if cfg.Auth.TokenTTLDays <= 0 {
		cfg.Auth.TokenTTLDays = 30
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLDays) * 24 * time.Hour

	if cfg.Push.ExpoURL == "" {
		cfg.Push.ExpoURL = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.Push.TimeoutSeconds <= 0 {
		cfg.Push.TimeoutSeconds = 10
	}
	cfg.Push.Timeout = time.Duration(cfg.Push.TimeoutSeconds) * time.Second
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads/profile_pics"
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64
	}

	return &cfg, nil
}
