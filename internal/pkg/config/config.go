// internal/pkg/config/config.go
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig is returned when a required setting is empty.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Data backend identifiers accepted by DATA_BACKEND.
const (
	BackendRelational = "relational"
	BackendDocument   = "document"
	BackendEdge       = "edge"
)

// Config holds all application configuration
type Config struct {
	// Application
	App AppConfig

	// Server
	Server ServerConfig

	// Functions server
	Edge EdgeConfig

	// Backend selection
	Backend BackendConfig

	// Database
	Database DatabaseConfig

	// MongoDB
	Mongo MongoConfig

	// Redis
	Redis RedisConfig

	// Asynq
	Asynq AsynqConfig

	// AWS
	AWS AWSConfig

	// Identity tokens
	Auth AuthConfig

	// Role cache
	Access AccessConfig

	// Withdrawal e-mail
	Notification NotificationConfig

	// Report generation
	Reports ReportsConfig

	// Security
	Security SecurityConfig

	// Secrets overlay
	Secrets SecretsConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	MaxUploadMB     int
}

// EdgeConfig configures the functions server and the client that calls it.
type EdgeConfig struct {
	// Listen address of cmd/edge.
	Host string
	Port string
	// BaseURL is where the edge client reaches the functions server.
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// BackendConfig selects the inventory/request store.
type BackendConfig struct {
	Kind string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string `required:"true"`
	Name               string `required:"true"`
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	StatementCacheMode string
	EnableQueryLogging bool
	// MigrationPath overrides the embedded migrations when set.
	MigrationPath string
	AutoMigrate   bool
}

// MongoConfig holds the document store connection settings
type MongoConfig struct {
	URI                  string
	Database             string
	InventoryCollection  string
	RequestCollection    string
	ConnectTimeout       time.Duration
	ServerSelectTimeout  time.Duration
	MaxPoolSize          uint64
	EnsureIndexesOnStart bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	TTL             time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
}

// AuthConfig holds bearer token validation settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
	Leeway    time.Duration
}

// AccessConfig sizes the role cache of the access gate.
type AccessConfig struct {
	RoleCacheSize int
	RoleCacheTTL  time.Duration
}

// NotificationConfig holds the withdrawal e-mail settings
type NotificationConfig struct {
	Enabled      bool
	Recipient    string
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// ReportsConfig holds report storage settings
type ReportsConfig struct {
	Prefix      string
	Retention   time.Duration
	URLExpiry   time.Duration
	CleanupCron string
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// SecretsConfig selects where secrets are read from.
type SecretsConfig struct {
	Provider   string // env, aws
	SecretName string
}

// Load loads configuration from .env and the process environment
func Load(logger *slog.Logger) (*Config, error) {
	v := NewViper()
	env := v.GetString("APP_ENV")

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	cfg := FromViper(v)

	if cfg.Secrets.Provider == "aws" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sm, err := NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.Secrets.SecretName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets manager: %w", err)
		}
		if err := ApplySecrets(ctx, cfg, sm); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// NewViper returns a viper instance bound to the environment with all defaults set.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// FromViper builds a Config from v. Use NewViper to get one carrying the defaults.
func FromViper(v *viper.Viper) *Config {
	env := v.GetString("APP_ENV")

	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: env,
			Version:     v.GetString("APP_VERSION"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			LogFormat:   v.GetString("LOG_FORMAT"),
			Debug:       getBool(v, "APP_DEBUG", env == "development"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			MaxHeaderBytes:  v.GetInt("SERVER_MAX_HEADER_BYTES"),
			GracefulTimeout: v.GetDuration("SERVER_GRACEFUL_TIMEOUT"),
			MaxUploadMB:     v.GetInt("SERVER_MAX_UPLOAD_MB"),
		},
		Edge: EdgeConfig{
			Host:    v.GetString("EDGE_HOST"),
			Port:    v.GetString("EDGE_PORT"),
			BaseURL: strings.TrimRight(v.GetString("EDGE_BASE_URL"), "/"),
			APIKey:  v.GetString("EDGE_API_KEY"),
			Timeout: v.GetDuration("EDGE_TIMEOUT"),
		},
		Backend: BackendConfig{
			Kind: strings.ToLower(v.GetString("DATA_BACKEND")),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSL_MODE"),
			MaxConnections:     v.GetInt32("DB_MAX_CONNECTIONS"),
			MinConnections:     v.GetInt32("DB_MIN_CONNECTIONS"),
			MaxConnLifetime:    v.GetDuration("DB_CONNECTION_LIFETIME"),
			MaxConnIdleTime:    v.GetDuration("DB_IDLE_TIME"),
			HealthCheckPeriod:  v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
			ConnectTimeout:     v.GetDuration("DB_CONNECT_TIMEOUT"),
			StatementCacheMode: v.GetString("DB_STATEMENT_CACHE_MODE"),
			EnableQueryLogging: getBool(v, "DB_QUERY_LOGGING", env == "development"),
			MigrationPath:      v.GetString("DB_MIGRATION_PATH"),
			AutoMigrate:        getBool(v, "DB_AUTO_MIGRATE", env != "production"),
		},
		Mongo: MongoConfig{
			URI:                  v.GetString("MONGODB_URI"),
			Database:             v.GetString("MONGODB_DATABASE"),
			InventoryCollection:  v.GetString("MONGODB_INVENTORY_COLLECTION"),
			RequestCollection:    v.GetString("MONGODB_REQUEST_COLLECTION"),
			ConnectTimeout:       v.GetDuration("MONGODB_CONNECT_TIMEOUT"),
			ServerSelectTimeout:  v.GetDuration("MONGODB_SERVER_SELECTION_TIMEOUT"),
			MaxPoolSize:          v.GetUint64("MONGODB_MAX_POOL_SIZE"),
			EnsureIndexesOnStart: v.GetBool("MONGODB_ENSURE_INDEXES"),
		},
		Redis: RedisConfig{
			Host:            v.GetString("REDIS_HOST"),
			Port:            v.GetString("REDIS_PORT"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			MaxRetries:      v.GetInt("REDIS_MAX_RETRIES"),
			MinRetryBackoff: v.GetDuration("REDIS_MIN_RETRY_BACKOFF"),
			MaxRetryBackoff: v.GetDuration("REDIS_MAX_RETRY_BACKOFF"),
			DialTimeout:     v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:     v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:        v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns:    v.GetInt("REDIS_MIN_IDLE_CONNS"),
			TTL:             v.GetDuration("REDIS_TTL"),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
			RedisPassword:   v.GetString("REDIS_PASSWORD"),
			RedisDB:         v.GetInt("ASYNQ_REDIS_DB"),
			Concurrency:     v.GetInt("ASYNQ_CONCURRENCY"),
			Queues:          parseQueues(v.GetString("ASYNQ_QUEUES")),
			StrictPriority:  v.GetBool("ASYNQ_STRICT_PRIORITY"),
			RetryMax:        v.GetInt("ASYNQ_RETRY_MAX"),
			ShutdownTimeout: v.GetDuration("ASYNQ_SHUTDOWN_TIMEOUT"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:        v.GetString("AWS_S3_BUCKET"),
			S3Endpoint:      v.GetString("AWS_S3_ENDPOINT"),
			UsePathStyle:    getBool(v, "AWS_S3_PATH_STYLE", env == "development"),
		},
		Auth: AuthConfig{
			JWTSecret: getString(v, "JWT_SECRET", generateDefaultSecret(env)),
			Issuer:    v.GetString("JWT_ISSUER"),
			Audience:  v.GetString("JWT_AUDIENCE"),
			Leeway:    v.GetDuration("JWT_LEEWAY"),
		},
		Access: AccessConfig{
			RoleCacheSize: v.GetInt("ROLE_CACHE_SIZE"),
			RoleCacheTTL:  v.GetDuration("ROLE_CACHE_TTL"),
		},
		Notification: NotificationConfig{
			Enabled:      getBool(v, "NOTIFY_ENABLED", env != "development"),
			Recipient:    v.GetString("NOTIFY_RECIPIENT"),
			From:         v.GetString("NOTIFY_FROM"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
		},
		Reports: ReportsConfig{
			Prefix:      strings.TrimSuffix(v.GetString("REPORTS_PREFIX"), "/") + "/",
			Retention:   v.GetDuration("REPORTS_RETENTION"),
			URLExpiry:   v.GetDuration("REPORTS_URL_EXPIRY"),
			CleanupCron: v.GetString("REPORTS_CLEANUP_CRON"),
		},
		Security: SecurityConfig{
			RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitDuration: v.GetDuration("RATE_LIMIT_DURATION"),
			AllowedOrigins:    getSlice(v, "ALLOWED_ORIGINS"),
			SecureHeaders:     getBool(v, "SECURE_HEADERS", env == "production"),
			RequestIDHeader:   v.GetString("REQUEST_ID_HEADER"),
		},
		Secrets: SecretsConfig{
			Provider:   v.GetString("SECRETS_PROVIDER"),
			SecretName: v.GetString("SECRETS_NAME"),
		},
	}
}

// Validate checks every section the selected backend needs and reports all
// problems at once.
func (c *Config) Validate() error {
	return validate(c)
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetEdgeAddress returns the listen address of the functions server
func (c *Config) GetEdgeAddress() string {
	return fmt.Sprintf("%s:%s", c.Edge.Host, c.Edge.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "scout-inventory")
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_MAX_HEADER_BYTES", 1<<20) // 1 MB
	v.SetDefault("SERVER_GRACEFUL_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_MAX_UPLOAD_MB", 10)

	v.SetDefault("EDGE_HOST", "0.0.0.0")
	v.SetDefault("EDGE_PORT", "8090")
	v.SetDefault("EDGE_BASE_URL", "")
	v.SetDefault("EDGE_API_KEY", "")
	v.SetDefault("EDGE_TIMEOUT", 10*time.Second)

	v.SetDefault("DATA_BACKEND", BackendRelational)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "scout")
	v.SetDefault("DB_PASSWORD", "scout_dev")
	v.SetDefault("DB_NAME", "scout_inventory")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)
	v.SetDefault("DB_CONNECTION_LIFETIME", time.Hour)
	v.SetDefault("DB_IDLE_TIME", 30*time.Minute)
	v.SetDefault("DB_HEALTH_CHECK_PERIOD", time.Minute)
	v.SetDefault("DB_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_STATEMENT_CACHE_MODE", "describe")
	v.SetDefault("DB_MIGRATION_PATH", "")

	v.SetDefault("MONGODB_URI", "")
	v.SetDefault("MONGODB_DATABASE", "scout_inventory")
	v.SetDefault("MONGODB_INVENTORY_COLLECTION", "inventory_items")
	v.SetDefault("MONGODB_REQUEST_COLLECTION", "item_requests")
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGODB_SERVER_SELECTION_TIMEOUT", 5*time.Second)
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 20)
	v.SetDefault("MONGODB_ENSURE_INDEXES", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond)
	v.SetDefault("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_TTL", 5*time.Minute)

	v.SetDefault("ASYNQ_REDIS_DB", 0)
	v.SetDefault("ASYNQ_CONCURRENCY", 10)
	v.SetDefault("ASYNQ_QUEUES", "critical:6,default:3,low:1")
	v.SetDefault("ASYNQ_STRICT_PRIORITY", false)
	v.SetDefault("ASYNQ_RETRY_MAX", 3)
	v.SetDefault("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "minioadmin")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "minioadmin123")
	v.SetDefault("AWS_S3_BUCKET", "scout-reports")
	v.SetDefault("AWS_S3_ENDPOINT", "")

	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "")
	v.SetDefault("JWT_LEEWAY", 30*time.Second)

	v.SetDefault("ROLE_CACHE_SIZE", 512)
	v.SetDefault("ROLE_CACHE_TTL", time.Minute)

	v.SetDefault("NOTIFY_RECIPIENT", "")
	v.SetDefault("NOTIFY_FROM", "inventario@escoteiros.local")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 1025)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")

	v.SetDefault("REPORTS_PREFIX", "reports")
	v.SetDefault("REPORTS_RETENTION", 30*24*time.Hour)
	v.SetDefault("REPORTS_URL_EXPIRY", 24*time.Hour)
	v.SetDefault("REPORTS_CLEANUP_CRON", "0 3 * * *")

	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", time.Minute)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_ID_HEADER", "X-Request-ID")

	v.SetDefault("SECRETS_PROVIDER", "env")
	v.SetDefault("SECRETS_NAME", "scout-inventory")
}

func getString(v *viper.Viper, key, defaultValue string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(v *viper.Viper, key string, defaultValue bool) bool {
	if value := v.GetString(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getSlice(v *viper.Viper, key string) []string {
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}

func generateDefaultSecret(env string) string {
	if env == "production" {
		return "" // Force error in production if not set
	}
	return defaultJWTSecret
}
