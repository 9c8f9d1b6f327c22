package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	Database   DatabaseConfig   `mapstructure:"database"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	MySQL      MySQLConfig      `mapstructure:"mysql"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Capacity   CapacityConfig   `mapstructure:"capacity"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Search     SearchConfig     `mapstructure:"search"`
	Generation GenerationConfig `mapstructure:"generation"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Security   SecurityConfig   `mapstructure:"security"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	PublicURL       string        `mapstructure:"public_url"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMySQL    = "mysql"
	StoreMongo    = "mongo"
)

type StoreConfig struct {
	Driver      string        `mapstructure:"driver"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Database   string `mapstructure:"database"`
	SSLMode    string `mapstructure:"ssl_mode"`
	MaxConns   int32  `mapstructure:"max_conns"`
	MinConns   int32  `mapstructure:"min_conns"`
	Migrations string `mapstructure:"migrations"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.User, c.Password, c.Host, c.Port, c.Database)
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Storage drivers
const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

type StorageConfig struct {
	Driver          string        `mapstructure:"driver"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	S3              S3Config      `mapstructure:"s3"`
	Local           LocalConfig   `mapstructure:"local"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	PublicRead      bool   `mapstructure:"public_read"`
}

type LocalConfig struct {
	Dir string `mapstructure:"dir"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type CapacityConfig struct {
	MaxPercentage float64 `mapstructure:"max_percentage"`
}

type UploadConfig struct {
	MaxImageMB int `mapstructure:"max_image_mb"`
}

type SearchConfig struct {
	MaxResults     int           `mapstructure:"max_results"`
	MaxPerType     int           `mapstructure:"max_per_type"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PoliteDelay    time.Duration `mapstructure:"polite_delay"`
	UserAgent      string        `mapstructure:"user_agent"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	MockFallback   bool          `mapstructure:"mock_fallback"`
}

type GenerationConfig struct {
	ReplicateToken  string        `mapstructure:"replicate_token"`
	ReplicateURL    string        `mapstructure:"replicate_url"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	MaxFurniture    int           `mapstructure:"max_furniture"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type WorkerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Concurrency   int           `mapstructure:"concurrency"`
	Queue         string        `mapstructure:"queue"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenTTL    time.Duration `mapstructure:"access_token_ttl"`
	AdminUsername     string        `mapstructure:"admin_username"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

// AdminEnabled reports whether admin routes should be mounted
func (c AuthConfig) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level"`
	Format       string        `mapstructure:"format"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks option combinations that cannot work at runtime
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StorePostgres, StoreSQLite, StoreMySQL, StoreMongo:
	case StoreRedis:
		if !c.Redis.Enabled {
			return errors.New("store.driver redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Capacity.MaxPercentage <= 0 || c.Capacity.MaxPercentage > 100 {
		return fmt.Errorf("capacity.max_percentage must be in (0, 100], got %v", c.Capacity.MaxPercentage)
	}

	if c.Auth.AdminEnabled() && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when admin auth is enabled")
	}

	if c.Worker.Enabled && !c.Redis.Enabled {
		return errors.New("worker.enabled requires redis.enabled")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.request_timeout", "170s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.public_url", "http://localhost:8080")

	// Session store
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.session_ttl", "1h")
	v.SetDefault("store.lock_timeout", "10s")

	// Postgres
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "roomdesigner")
	v.SetDefault("database.database", "roomdesigner")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.migrations", "file://migrations")

	// SQLite / MySQL / Mongo
	v.SetDefault("sqlite.path", "./data/sessions.db")
	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "roomdesigner")
	v.SetDefault("mysql.database", "roomdesigner")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "roomdesigner")
	v.SetDefault("mongo.collection", "sessions")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Object storage
	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.download_timeout", "30s")
	v.SetDefault("storage.local.dir", "./data/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.public_read", true)

	// Capacity and uploads
	v.SetDefault("capacity.max_percentage", 60)
	v.SetDefault("upload.max_image_mb", 10)

	// Search
	v.SetDefault("search.max_results", 20)
	v.SetDefault("search.max_per_type", 5)
	v.SetDefault("search.request_timeout", "10s")
	v.SetDefault("search.polite_delay", "1s")
	v.SetDefault("search.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("search.cache_ttl", "10m")
	v.SetDefault("search.mock_fallback", true)

	// Generation
	v.SetDefault("generation.replicate_url", "https://api.replicate.com/v1")
	v.SetDefault("generation.poll_interval", "2s")
	v.SetDefault("generation.download_timeout", "120s")
	v.SetDefault("generation.max_furniture", 5)
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	// Events
	v.SetDefault("kafka.topic", "room-designer.workflow")

	// Worker
	v.SetDefault("worker.enabled", false)
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.queue", "generation")
	v.SetDefault("worker.purge_interval", "10m")

	// Auth
	v.SetDefault("auth.access_token_ttl", "1h")
	v.SetDefault("auth.admin_username", "admin")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 60)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h")
	v.SetDefault("logging.rotation_time", "24h")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("store.driver", "SESSION_STORE")

	// Databases
	v.BindEnv("database.password", "POSTGRES_PASSWORD")
	v.BindEnv("mysql.password", "MYSQL_PASSWORD")
	v.BindEnv("mongo.uri", "MONGO_URI")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// AWS
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.s3.bucket", "AWS_S3_BUCKET")
	v.BindEnv("storage.s3.region", "AWS_REGION")
	v.BindEnv("storage.s3.access_key_id", "AWS_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "AWS_SECRET_ACCESS_KEY")

	// AI
	v.BindEnv("generation.replicate_token", "REPLICATE_API_TOKEN")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")

	// Kafka
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.admin_username", "ADMIN_USERNAME")
	v.BindEnv("auth.admin_password_hash", "ADMIN_PASSWORD_HASH")
}
