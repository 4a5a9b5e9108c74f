package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	OCR      OCRConfig
	Quota    QuotaConfig
	Pipeline PipelineConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object storage settings for uploaded files.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// OCRConfig holds settings for the OCR text provider.
type OCRConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// QuotaConfig holds the monthly free-tier and paid-mode pricing settings.
type QuotaConfig struct {
	FreeMonthlyLimit int    `mapstructure:"free_monthly_limit"`
	CostPerRequest   string `mapstructure:"cost_per_request"`
}

// PipelineConfig holds multi-page extraction settings.
type PipelineConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	MaxPages    int           `mapstructure:"max_pages"`
	WorkDir     string        `mapstructure:"work_dir"`
	JobTimeout  time.Duration `mapstructure:"job_timeout"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the BILLDEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billdex")
	v.SetDefault("db.password", "billdex_secret")
	v.SetDefault("db.name", "billdex_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 5)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "billdex-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// OCR provider defaults
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.timeout_secs", 60)

	// Quota defaults
	v.SetDefault("quota.free_monthly_limit", 1000)
	v.SetDefault("quota.cost_per_request", "0.10")

	// Pipeline defaults
	v.SetDefault("pipeline.concurrency", 3)
	v.SetDefault("pipeline.max_pages", 50)
	v.SetDefault("pipeline.work_dir", "")
	v.SetDefault("pipeline.job_timeout", "10m")

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	// Explicit bindings so AutomaticEnv sees nested keys
	for key, env := range map[string]string{
		"server.port":              "BILLDEX_SERVER_PORT",
		"server.environment":       "BILLDEX_SERVER_ENVIRONMENT",
		"db.host":                  "BILLDEX_DB_HOST",
		"db.port":                  "BILLDEX_DB_PORT",
		"db.user":                  "BILLDEX_DB_USER",
		"db.password":              "BILLDEX_DB_PASSWORD",
		"db.name":                  "BILLDEX_DB_NAME",
		"db.sslmode":               "BILLDEX_DB_SSLMODE",
		"s3.region":                "BILLDEX_S3_REGION",
		"s3.bucket":                "BILLDEX_S3_BUCKET",
		"s3.endpoint":              "BILLDEX_S3_ENDPOINT",
		"s3.access_key":            "BILLDEX_S3_ACCESS_KEY",
		"s3.secret_key":            "BILLDEX_S3_SECRET_KEY",
		"ocr.api_key":              "BILLDEX_OCR_API_KEY",
		"ocr.endpoint":             "BILLDEX_OCR_ENDPOINT",
		"ocr.timeout_secs":         "BILLDEX_OCR_TIMEOUT_SECS",
		"quota.free_monthly_limit": "BILLDEX_QUOTA_FREE_MONTHLY_LIMIT",
		"quota.cost_per_request":   "BILLDEX_QUOTA_COST_PER_REQUEST",
		"pipeline.concurrency":     "BILLDEX_PIPELINE_CONCURRENCY",
		"pipeline.max_pages":       "BILLDEX_PIPELINE_MAX_PAGES",
		"pipeline.work_dir":        "BILLDEX_PIPELINE_WORK_DIR",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
