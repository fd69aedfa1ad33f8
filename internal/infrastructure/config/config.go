package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Storage    StorageConfig
	Stripe     StripeConfig
	Payment    PaymentConfig
	LocalStore LocalStoreConfig
	Telemetry  TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name   string
	Env    string
	Port   string
	Origin string // public web origin used for checkout redirects
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	MaxRefreshCount        int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
	IdleTimeout              time.Duration
	MaxHeaderBytes           int
	MaxBodySize              int64
	PaymentRateLimitEnabled  bool
	PaymentRateLimitPerSec   float64
	PaymentRateLimitBurst    int
	CORSAllowOrigins         []string
	CORSAllowMethods         []string
	CORSAllowHeaders         []string
	TrustedProxies           []string
	ShutdownTimeout          time.Duration
	MetricsEnabled           bool
	PhotoUploadMaxSize       int64
	PhotoUploadAllowedFormat []string
}

// StorageConfig holds S3-compatible object storage settings for card photos
type StorageConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string // base URL objects are served from; defaults to endpoint/bucket
	PhotoFolder   string // key prefix for uploaded photos
}

// StripeConfig holds Stripe API settings
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
}

// PaymentConfig holds the checkout pricing
type PaymentConfig struct {
	PriceInCents int64
	Currency     string
}

// LocalStoreConfig holds the local card store limits
type LocalStoreConfig struct {
	Key                  string
	Slot                 string // memory, file, redis
	FileDir              string
	BudgetBytes          int
	CompressionThreshold int
	MaxPhotos            int
	MaxPhotoWidth        int
	JPEGQuality          float64
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled    bool    // Enable database query tracing (otelgorm)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MC_ prefix (e.g., MC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:   v.GetString("app.name"),
			Env:    v.GetString("app.env"),
			Port:   v.GetString("app.port"),
			Origin: v.GetString("app.origin"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:              v.GetDuration("http.read_timeout"),
			WriteTimeout:             v.GetDuration("http.write_timeout"),
			IdleTimeout:              v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:           v.GetInt("http.max_header_bytes"),
			MaxBodySize:              v.GetInt64("http.max_body_size"),
			PaymentRateLimitEnabled:  v.GetBool("http.payment_rate_limit_enabled"),
			PaymentRateLimitPerSec:   v.GetFloat64("http.payment_rate_limit_per_sec"),
			PaymentRateLimitBurst:    v.GetInt("http.payment_rate_limit_burst"),
			CORSAllowOrigins:         v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:         v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:         v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:           v.GetStringSlice("http.trusted_proxies"),
			ShutdownTimeout:          v.GetDuration("http.shutdown_timeout"),
			MetricsEnabled:           v.GetBool("http.metrics_enabled"),
			PhotoUploadMaxSize:       v.GetInt64("http.photo_upload_max_size"),
			PhotoUploadAllowedFormat: v.GetStringSlice("http.photo_upload_allowed_format"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("storage.endpoint"),
			Region:        v.GetString("storage.region"),
			Bucket:        v.GetString("storage.bucket"),
			AccessKey:     v.GetString("storage.access_key"),
			SecretKey:     v.GetString("storage.secret_key"),
			UsePathStyle:  v.GetBool("storage.use_path_style"),
			PublicBaseURL: v.GetString("storage.public_base_url"),
			PhotoFolder:   v.GetString("storage.photo_folder"),
		},
		Stripe: StripeConfig{
			SecretKey:      v.GetString("stripe.secret_key"),
			PublishableKey: v.GetString("stripe.publishable_key"),
			WebhookSecret:  v.GetString("stripe.webhook_secret"),
		},
		Payment: PaymentConfig{
			PriceInCents: v.GetInt64("payment.price_in_cents"),
			Currency:     v.GetString("payment.currency"),
		},
		LocalStore: LocalStoreConfig{
			Key:                  v.GetString("localstore.key"),
			Slot:                 v.GetString("localstore.slot"),
			FileDir:              v.GetString("localstore.file_dir"),
			BudgetBytes:          v.GetInt("localstore.budget_bytes"),
			CompressionThreshold: v.GetInt("localstore.compression_threshold"),
			MaxPhotos:            v.GetInt("localstore.max_photos"),
			MaxPhotoWidth:        v.GetInt("localstore.max_photo_width"),
			JPEGQuality:          v.GetFloat64("localstore.jpeg_quality"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "memoriascard-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Origin == "" {
		cfg.App.Origin = "http://localhost:5173"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "memoriascard"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = time.Hour
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "memoriascard"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 12 << 20 // photos travel as data URIs
	}
	if cfg.HTTP.PaymentRateLimitPerSec == 0 {
		cfg.HTTP.PaymentRateLimitPerSec = 1
	}
	if cfg.HTTP.PaymentRateLimitBurst == 0 {
		cfg.HTTP.PaymentRateLimitBurst = 5
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Client-Info", "Apikey"}
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.PhotoUploadMaxSize == 0 {
		cfg.HTTP.PhotoUploadMaxSize = 5 << 20
	}
	if len(cfg.HTTP.PhotoUploadAllowedFormat) == 0 {
		cfg.HTTP.PhotoUploadAllowedFormat = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	}
	if cfg.Storage.Endpoint == "" {
		cfg.Storage.Endpoint = "http://localhost:9000"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "memory-card-photos"
	}
	if cfg.Storage.PhotoFolder == "" {
		cfg.Storage.PhotoFolder = "cards"
	}
	if cfg.Payment.PriceInCents == 0 {
		cfg.Payment.PriceInCents = 1790
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "brl"
	}
	if cfg.LocalStore.Key == "" {
		cfg.LocalStore.Key = "memory-cards"
	}
	if cfg.LocalStore.Slot == "" {
		cfg.LocalStore.Slot = "file"
	}
	if cfg.LocalStore.FileDir == "" {
		cfg.LocalStore.FileDir = "./data/localstore"
	}
	if cfg.LocalStore.BudgetBytes == 0 {
		cfg.LocalStore.BudgetBytes = 5 * 1024 * 1024
	}
	if cfg.LocalStore.CompressionThreshold == 0 {
		cfg.LocalStore.CompressionThreshold = 300 * 1024
	}
	if cfg.LocalStore.MaxPhotos == 0 {
		cfg.LocalStore.MaxPhotos = 3
	}
	if cfg.LocalStore.MaxPhotoWidth == 0 {
		cfg.LocalStore.MaxPhotoWidth = 800
	}
	if cfg.LocalStore.JPEGQuality == 0 {
		cfg.LocalStore.JPEGQuality = 0.7
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "memoriascard-backend"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Payment.PriceInCents <= 0 {
		return fmt.Errorf("payment.price_in_cents must be positive")
	}

	switch c.LocalStore.Slot {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("localstore.slot must be one of memory, file, redis, got %q", c.LocalStore.Slot)
	}
	if c.LocalStore.Slot == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("localstore.slot=redis requires redis.enabled=true")
	}
	if c.LocalStore.BudgetBytes <= 0 {
		return fmt.Errorf("localstore.budget_bytes must be positive")
	}
	if c.LocalStore.CompressionThreshold <= 0 {
		return fmt.Errorf("localstore.compression_threshold must be positive")
	}
	if c.LocalStore.MaxPhotos <= 0 {
		return fmt.Errorf("localstore.max_photos must be positive")
	}
	if c.LocalStore.JPEGQuality <= 0 || c.LocalStore.JPEGQuality > 1 {
		return fmt.Errorf("localstore.jpeg_quality must be in (0, 1], got %f", c.LocalStore.JPEGQuality)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("stripe.secret_key is required in production")
		}
		if strings.HasPrefix(c.Stripe.SecretKey, "sk_test_") {
			return fmt.Errorf("stripe.secret_key must be a live key in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
