package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB/Redis connection)
// - default: Values common across all environments (TTLs, pool sizes)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Seckill SeckillConfig
	Cache   CacheConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"50"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-User-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type SeckillConfig struct {
	QueueCapacity  int           `envconfig:"SECKILL_QUEUE_CAPACITY" default:"1048576"`
	TaskTimeout    time.Duration `envconfig:"SECKILL_TASK_TIMEOUT" default:"30s"`
	UserLockTTL    time.Duration `envconfig:"SECKILL_USER_LOCK_TTL" default:"10s"`
	PendingTTL     time.Duration `envconfig:"SECKILL_PENDING_TTL" default:"10m"`
	FulfilledTTL   time.Duration `envconfig:"SECKILL_FULFILLED_TTL" default:"24h"`
	WorkerStopWait time.Duration `envconfig:"SECKILL_WORKER_STOP_WAIT" default:"30s"`
}

type CacheConfig struct {
	ShopTTL        time.Duration `envconfig:"CACHE_SHOP_TTL" default:"30m"`
	VoucherTTL     time.Duration `envconfig:"CACHE_VOUCHER_TTL" default:"20m"`
	NullTTL        time.Duration `envconfig:"CACHE_NULL_TTL" default:"2m"`
	MutexTTL       time.Duration `envconfig:"CACHE_MUTEX_TTL" default:"10s"`
	RebuildWorkers int           `envconfig:"CACHE_REBUILD_WORKERS" default:"10"`
	RetryAttempts  int           `envconfig:"CACHE_RETRY_ATTEMPTS" default:"8"`
	RetryBackoff   time.Duration `envconfig:"CACHE_RETRY_BACKOFF" default:"50ms"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		Redis: RedisConfig{
			Addr:     "localhost:16379", // Test Redis port
			PoolSize: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Seckill: SeckillConfig{
			QueueCapacity:  1024,
			TaskTimeout:    30 * time.Second,
			UserLockTTL:    10 * time.Second,
			PendingTTL:     10 * time.Minute,
			FulfilledTTL:   24 * time.Hour,
			WorkerStopWait: 5 * time.Second,
		},
		Cache: CacheConfig{
			ShopTTL:        30 * time.Minute,
			VoucherTTL:     20 * time.Minute,
			NullTTL:        2 * time.Minute,
			MutexTTL:       10 * time.Second,
			RebuildWorkers: 2,
			RetryAttempts:  8,
			RetryBackoff:   50 * time.Millisecond,
		},
	}
}
