package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	DB           DBConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	JWT          JWTConfig
	S3           S3Config
	Email        EmailConfig
	Admin        AdminConfig
	Notification NotificationConfig
	Feed         FeedConfig
	Log          LogConfig
	CORS         CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// StoreConfig selects the backing document store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
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

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis
// and the in-process broker and token store are used instead.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// AdminConfig holds the single static admin credential and the cookie
// settings for the admin and preference sessions.
type AdminConfig struct {
	Email         string `mapstructure:"email"`
	Password      string `mapstructure:"password"`
	SessionSecret string `mapstructure:"session_secret"`
	SessionMaxAge int    `mapstructure:"session_max_age"`
	SecureCookie  bool   `mapstructure:"secure_cookie"`
}

// NotificationConfig holds outbox worker settings.
type NotificationConfig struct {
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	SendTimeout    time.Duration `mapstructure:"send_timeout"`
	FailureLogSize int           `mapstructure:"failure_log_size"`
}

// FeedConfig holds live feed settings.
type FeedConfig struct {
	Channel           string        `mapstructure:"channel"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads an optional .env file and then configuration from environment
// variables with the LOSTFOUND_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LOSTFOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("store.driver", StoreDriverPostgres)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "lostfound")
	v.SetDefault("db.password", "lostfound_secret")
	v.SetDefault("db.name", "lostfound_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Mongo defaults
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "lostfound")
	v.SetDefault("mongo.connect_timeout", "10s")

	// Redis defaults (disabled)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.issuer", "lostfound")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "lostfound-images")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.public_base_url", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@lostfound.local")
	v.SetDefault("email.from_name", "Campus Lost & Found")
	v.SetDefault("email.frontend_url", "http://localhost:5173")

	// Admin defaults
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.session_secret", "change-me-in-production")
	v.SetDefault("admin.session_max_age", 365*24*60*60)
	v.SetDefault("admin.secure_cookie", false)

	// Notification outbox defaults
	v.SetDefault("notification.workers", 2)
	v.SetDefault("notification.queue_size", 100)
	v.SetDefault("notification.send_timeout", "10s")
	v.SetDefault("notification.failure_log_size", 100)

	// Feed defaults
	v.SetDefault("feed.channel", "lostfound:reports")
	v.SetDefault("feed.heartbeat_interval", "25s")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (Vite dev server)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "LOSTFOUND_SERVER_PORT",
		"server.read_timeout":           "LOSTFOUND_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "LOSTFOUND_SERVER_WRITE_TIMEOUT",
		"server.environment":            "LOSTFOUND_SERVER_ENVIRONMENT",
		"store.driver":                  "LOSTFOUND_STORE_DRIVER",
		"db.host":                       "LOSTFOUND_DB_HOST",
		"db.port":                       "LOSTFOUND_DB_PORT",
		"db.user":                       "LOSTFOUND_DB_USER",
		"db.password":                   "LOSTFOUND_DB_PASSWORD",
		"db.name":                       "LOSTFOUND_DB_NAME",
		"db.sslmode":                    "LOSTFOUND_DB_SSLMODE",
		"db.max_open":                   "LOSTFOUND_DB_MAX_OPEN",
		"db.max_idle":                   "LOSTFOUND_DB_MAX_IDLE",
		"mongo.uri":                     "LOSTFOUND_MONGO_URI",
		"mongo.database":                "LOSTFOUND_MONGO_DATABASE",
		"mongo.connect_timeout":         "LOSTFOUND_MONGO_CONNECT_TIMEOUT",
		"redis.addr":                    "LOSTFOUND_REDIS_ADDR",
		"redis.password":                "LOSTFOUND_REDIS_PASSWORD",
		"redis.db":                      "LOSTFOUND_REDIS_DB",
		"jwt.secret":                    "LOSTFOUND_JWT_SECRET",
		"jwt.access_expiry":             "LOSTFOUND_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                    "LOSTFOUND_JWT_ISSUER",
		"s3.region":                     "LOSTFOUND_S3_REGION",
		"s3.bucket":                     "LOSTFOUND_S3_BUCKET",
		"s3.endpoint":                   "LOSTFOUND_S3_ENDPOINT",
		"s3.access_key":                 "LOSTFOUND_S3_ACCESS_KEY",
		"s3.secret_key":                 "LOSTFOUND_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "LOSTFOUND_S3_MAX_FILE_SIZE_MB",
		"s3.public_base_url":            "LOSTFOUND_S3_PUBLIC_BASE_URL",
		"email.provider":                "LOSTFOUND_EMAIL_PROVIDER",
		"email.region":                  "LOSTFOUND_EMAIL_REGION",
		"email.from_address":            "LOSTFOUND_EMAIL_FROM_ADDRESS",
		"email.from_name":               "LOSTFOUND_EMAIL_FROM_NAME",
		"email.frontend_url":            "LOSTFOUND_EMAIL_FRONTEND_URL",
		"admin.email":                   "LOSTFOUND_ADMIN_EMAIL",
		"admin.password":                "LOSTFOUND_ADMIN_PASSWORD",
		"admin.session_secret":          "LOSTFOUND_ADMIN_SESSION_SECRET",
		"admin.session_max_age":         "LOSTFOUND_ADMIN_SESSION_MAX_AGE",
		"admin.secure_cookie":           "LOSTFOUND_ADMIN_SECURE_COOKIE",
		"notification.workers":          "LOSTFOUND_NOTIFICATION_WORKERS",
		"notification.queue_size":       "LOSTFOUND_NOTIFICATION_QUEUE_SIZE",
		"notification.send_timeout":     "LOSTFOUND_NOTIFICATION_SEND_TIMEOUT",
		"notification.failure_log_size": "LOSTFOUND_NOTIFICATION_FAILURE_LOG_SIZE",
		"feed.channel":                  "LOSTFOUND_FEED_CHANNEL",
		"feed.heartbeat_interval":       "LOSTFOUND_FEED_HEARTBEAT_INTERVAL",
		"log.level":                     "LOSTFOUND_LOG_LEVEL",
		"log.format":                    "LOSTFOUND_LOG_FORMAT",
		"cors.allowed_origins":          "LOSTFOUND_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if LOSTFOUND_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LOSTFOUND_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("store.driver")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Mongo = MongoConfig{
		URI:            v.GetString("mongo.uri"),
		Database:       v.GetString("mongo.database"),
		ConnectTimeout: v.GetDuration("mongo.connect_timeout"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PublicBaseURL: v.GetString("s3.public_base_url"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Admin = AdminConfig{
		Email:         v.GetString("admin.email"),
		Password:      v.GetString("admin.password"),
		SessionSecret: v.GetString("admin.session_secret"),
		SessionMaxAge: v.GetInt("admin.session_max_age"),
		SecureCookie:  v.GetBool("admin.secure_cookie"),
	}
	cfg.Notification = NotificationConfig{
		Workers:        v.GetInt("notification.workers"),
		QueueSize:      v.GetInt("notification.queue_size"),
		SendTimeout:    v.GetDuration("notification.send_timeout"),
		FailureLogSize: v.GetInt("notification.failure_log_size"),
	}
	cfg.Feed = FeedConfig{
		Channel:           v.GetString("feed.channel"),
		HeartbeatInterval: v.GetDuration("feed.heartbeat_interval"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}
	switch c.Email.Provider {
	case "noop", "ses":
	default:
		errs = append(errs, fmt.Errorf("email.provider: unknown provider %q", c.Email.Provider))
	}
	if c.Notification.Workers <= 0 {
		errs = append(errs, errors.New("notification.workers: must be positive"))
	}
	if c.Notification.QueueSize <= 0 {
		errs = append(errs, errors.New("notification.queue_size: must be positive"))
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		errs = append(errs, errors.New("admin: email and password are required"))
	}
	if c.Admin.SessionSecret == "" {
		errs = append(errs, errors.New("admin.session_secret: required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret: required"))
	}
	return errors.Join(errs...)
}
