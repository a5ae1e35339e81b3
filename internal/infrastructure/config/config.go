package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MKT_DATABASE_PASSWORD
const EnvPrefix = "MKT"

const defaultSessionSecret = "marketplace-dev-session-secret"

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Session     SessionConfig
	Checkout    CheckoutConfig
	Maintenance MaintenanceConfig
	Shipping    ShippingConfig
	Storage     StorageConfig
	Telemetry   TelemetryConfig
	Swagger     SwaggerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// IsProduction reports whether the app runs with env=production
func (a AppConfig) IsProduction() bool { return a.Env == "production" }

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
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
	LogLevel        string
}

// RedisConfig holds Redis connection settings. An empty host disables
// Redis and the in-memory stores are used instead.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

// Enabled reports whether a Redis host is configured
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	MaxRefreshCount        int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// SessionConfig configures the cookie that carries the guest identifier
type SessionConfig struct {
	Name     string
	Secret   string
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	SameSite string // strict, lax, none
}

// CheckoutConfig holds checkout behaviour
type CheckoutConfig struct {
	SessionTTL     time.Duration
	Currency       string
	IdempotencyTTL time.Duration
}

// MaintenanceConfig drives the background sweeper. It runs unless
// maintenance.enabled is explicitly false.
type MaintenanceConfig struct {
	Enabled      bool
	Interval     time.Duration
	TaskTimeout  time.Duration
	GuestCartTTL time.Duration
}

// ShippingConfig holds the warehouse origin used for distance based rates
type ShippingConfig struct {
	OriginLatitude  float64
	OriginLongitude float64
	HasOrigin       bool
}

// StorageConfig configures S3-compatible object storage for product images.
// An empty bucket disables uploads.
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
	PublicBaseURL   string
}

// Enabled reports whether a bucket is configured
func (s StorageConfig) Enabled() bool { return s.Bucket != "" }

// TelemetryConfig holds OpenTelemetry and profiling configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool

	MetricsEnabled        bool
	MetricsExportInterval time.Duration
	LogsEnabled           bool
	LogsLevel             string

	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration

	ProfilingEnabled       bool
	ProfilingServerAddress string
	ProfilingAuthUser      string
	ProfilingAuthPassword  string
	ProfilingTypes         []string
	SpanProfilesEnabled    bool
}

// SwaggerConfig holds Swagger endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string
}

// Load reads .env, then config.toml, then MKT_ environment variables.
// Environment variables win over the file; built-in defaults fill the rest.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv exports variables from path without overriding ones already set
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
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
			LogLevel:        v.GetString("database.log_level"),
		},
		Redis: RedisConfig{
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
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Session: SessionConfig{
			Name:     v.GetString("session.name"),
			Secret:   v.GetString("session.secret"),
			Path:     v.GetString("session.path"),
			Domain:   v.GetString("session.domain"),
			MaxAge:   v.GetDuration("session.max_age"),
			Secure:   v.GetBool("session.secure"),
			SameSite: v.GetString("session.same_site"),
		},
		Checkout: CheckoutConfig{
			SessionTTL:     v.GetDuration("checkout.session_ttl"),
			Currency:       v.GetString("checkout.currency"),
			IdempotencyTTL: v.GetDuration("checkout.idempotency_ttl"),
		},
		Maintenance: MaintenanceConfig{
			Enabled:      !v.IsSet("maintenance.enabled") || v.GetBool("maintenance.enabled"),
			Interval:     v.GetDuration("maintenance.interval"),
			TaskTimeout:  v.GetDuration("maintenance.task_timeout"),
			GuestCartTTL: v.GetDuration("maintenance.guest_cart_ttl"),
		},
		Shipping: ShippingConfig{
			OriginLatitude:  v.GetFloat64("shipping.origin_latitude"),
			OriginLongitude: v.GetFloat64("shipping.origin_longitude"),
			HasOrigin:       v.IsSet("shipping.origin_latitude") && v.IsSet("shipping.origin_longitude"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
			PublicBaseURL:   v.GetString("storage.public_base_url"),
		},
		Telemetry: TelemetryConfig{
			Enabled:                v.GetBool("telemetry.enabled"),
			CollectorEndpoint:      v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:          v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:            v.GetString("telemetry.service_name"),
			Insecure:               v.GetBool("telemetry.insecure"),
			MetricsEnabled:         v.GetBool("telemetry.metrics_enabled"),
			MetricsExportInterval:  v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:            v.GetBool("telemetry.logs_enabled"),
			LogsLevel:              v.GetString("telemetry.logs_level"),
			DBTraceEnabled:         v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:           v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh:      v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:       v.GetBool("telemetry.profiling_enabled"),
			ProfilingServerAddress: v.GetString("telemetry.profiling_server_address"),
			ProfilingAuthUser:      v.GetString("telemetry.profiling_auth_user"),
			ProfilingAuthPassword:  v.GetString("telemetry.profiling_auth_password"),
			ProfilingTypes:         v.GetStringSlice("telemetry.profiling_types"),
			SpanProfilesEnabled:    v.GetBool("telemetry.span_profiles_enabled"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
	}
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.App.Name, "marketplace-backend")
	setDefault(&cfg.App.Env, "development")
	setDefault(&cfg.App.Port, "8080")
	setDefault(&cfg.App.Version, "dev")

	setDefault(&cfg.Database.Host, "localhost")
	setDefault(&cfg.Database.Port, 5432)
	setDefault(&cfg.Database.User, "postgres")
	setDefault(&cfg.Database.DBName, "marketplace")
	setDefault(&cfg.Database.SSLMode, "disable")
	setDefault(&cfg.Database.MaxOpenConns, 25)
	setDefault(&cfg.Database.MaxIdleConns, 5)
	setDefault(&cfg.Database.ConnMaxLifetime, 60)
	setDefault(&cfg.Database.ConnMaxIdleTime, 30)
	setDefault(&cfg.Database.LogLevel, "warn")

	if cfg.Redis.Host != "" {
		setDefault(&cfg.Redis.Port, 6379)
	}

	setDefault(&cfg.JWT.AccessTokenExpiration, 15*time.Minute)
	setDefault(&cfg.JWT.RefreshTokenExpiration, 7*24*time.Hour)
	setDefault(&cfg.JWT.Issuer, "marketplace-backend")
	setDefault(&cfg.JWT.MaxRefreshCount, 10)

	setDefault(&cfg.Log.Level, "info")
	setDefault(&cfg.Log.Format, "console")
	setDefault(&cfg.Log.Output, "stdout")

	setDefault(&cfg.HTTP.ReadTimeout, 15*time.Second)
	setDefault(&cfg.HTTP.WriteTimeout, 15*time.Second)
	setDefault(&cfg.HTTP.IdleTimeout, 60*time.Second)
	setDefault(&cfg.HTTP.ShutdownTimeout, 10*time.Second)
	setDefault(&cfg.HTTP.MaxHeaderBytes, 1<<20)
	setDefault(&cfg.HTTP.MaxBodySize, int64(2<<20))
	setDefault(&cfg.HTTP.RateLimitRequests, 120)
	setDefault(&cfg.HTTP.RateLimitWindow, time.Minute)
	// No default origin: cross-origin requests stay closed until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Guest-ID", "Idempotency-Key"}
	}

	setDefault(&cfg.Session.Name, "mkt_session")
	setDefault(&cfg.Session.Secret, defaultSessionSecret)
	setDefault(&cfg.Session.Path, "/")
	setDefault(&cfg.Session.MaxAge, 30*24*time.Hour)
	setDefault(&cfg.Session.SameSite, "lax")

	setDefault(&cfg.Checkout.SessionTTL, 30*time.Minute)
	setDefault(&cfg.Checkout.Currency, "USD")
	setDefault(&cfg.Checkout.IdempotencyTTL, 24*time.Hour)
	cfg.Checkout.Currency = strings.ToUpper(cfg.Checkout.Currency)

	setDefault(&cfg.Maintenance.Interval, 5*time.Minute)
	setDefault(&cfg.Maintenance.TaskTimeout, time.Minute)
	setDefault(&cfg.Maintenance.GuestCartTTL, 30*24*time.Hour)

	setDefault(&cfg.Storage.Region, "us-east-1")
	setDefault(&cfg.Storage.PresignExpiry, 15*time.Minute)

	setDefault(&cfg.Telemetry.CollectorEndpoint, "localhost:4317")
	setDefault(&cfg.Telemetry.ServiceName, cfg.App.Name)
	setDefault(&cfg.Telemetry.MetricsExportInterval, 30*time.Second)
	setDefault(&cfg.Telemetry.LogsLevel, "info")
	setDefault(&cfg.Telemetry.DBSlowQueryThresh, 200*time.Millisecond)
	setDefault(&cfg.Telemetry.SamplingRatio, 1.0)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if len(c.Checkout.Currency) != 3 {
		return fmt.Errorf("checkout.currency must be a 3-letter ISO code, got %q", c.Checkout.Currency)
	}
	if c.Checkout.SessionTTL < time.Minute {
		return fmt.Errorf("checkout.session_ttl must be at least 1m")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilingServerAddress == "" {
		return fmt.Errorf("telemetry.profiling_server_address is required when profiling is enabled")
	}
	switch c.Session.SameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("session.same_site must be strict, lax or none")
	}
	if c.Session.SameSite == "none" && !c.Session.Secure {
		return fmt.Errorf("session.same_site=none requires session.secure=true")
	}

	if !c.App.IsProduction() {
		return nil
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
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("http.cors_allow_origins cannot be '*' in production")
		}
	}
	if c.Session.Secret == defaultSessionSecret || len(c.Session.Secret) < 32 {
		return fmt.Errorf("session.secret must be set to at least 32 characters in production")
	}
	if !c.Session.Secure {
		return fmt.Errorf("session.secure must be true in production")
	}
	if c.Telemetry.DBLogFullSQL {
		return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
	}
	return nil
}

// DSN returns the Postgres connection URL with escaped credentials
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
