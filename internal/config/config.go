package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Name           string `mapstructure:"name"`
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	Version        string `mapstructure:"version"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	BodyLimitMB    int    `mapstructure:"body_limit_mb"`
	CORSOrigins    string `mapstructure:"cors_origins"`
}

type StoreConf struct {
	Driver string `mapstructure:"driver"` // mongo | memory
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConf struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConf struct {
	Secret  string `mapstructure:"secret"`
	TTLDays int    `mapstructure:"ttl_days"`
}

type CatalogConf struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
	TrendingLimit   int `mapstructure:"trending_limit"`
	RecentLimit     int `mapstructure:"recent_limit"`
	TopCategories   int `mapstructure:"top_categories"`
}

type UploadsConf struct {
	Driver     string `mapstructure:"driver"` // disk | s3
	Dir        string `mapstructure:"dir"`
	PublicPath string `mapstructure:"public_path"`
	MaxVideoMB int    `mapstructure:"max_video_mb"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type S3Conf struct {
	PublicRead bool `mapstructure:"public_read"`
	PresignTTL int  `mapstructure:"presign_ttl_seconds"`
}

type KafkaConf struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RateLimitConf struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	Store     StoreConf     `mapstructure:"store"`
	Mongo     MongoConf     `mapstructure:"mongodb"`
	Redis     RedisConf     `mapstructure:"redis"`
	JWT       JWTConf       `mapstructure:"jwt"`
	Catalog   CatalogConf   `mapstructure:"catalog"`
	Uploads   UploadsConf   `mapstructure:"uploads"`
	AWS       AWSConf       `mapstructure:"aws"`
	S3        S3Conf        `mapstructure:"s3"`
	Kafka     KafkaConf     `mapstructure:"kafka"`
	RateLimit RateLimitConf `mapstructure:"rate_limit"`
	Seed      struct {
		OnStartup bool `mapstructure:"on_startup"`
	} `mapstructure:"seed"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	TokenTTL        time.Duration
	PresignTTL      time.Duration
	RateWindow      time.Duration
	BodyLimit       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clips-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 5000)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.shutdown_seconds", 15)
	v.SetDefault("app.body_limit_mb", 100)
	v.SetDefault("app.cors_origins", "*")

	v.SetDefault("store.driver", "mongo")
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "clips")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl_days", 30)

	v.SetDefault("catalog.default_page_size", 12)
	v.SetDefault("catalog.max_page_size", 100)
	v.SetDefault("catalog.trending_limit", 10)
	v.SetDefault("catalog.recent_limit", 12)
	v.SetDefault("catalog.top_categories", 5)

	v.SetDefault("uploads.driver", "disk")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.public_path", "/uploads")
	v.SetDefault("uploads.max_video_mb", 100)

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.bucket", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("s3.public_read", false)
	v.SetDefault("s3.presign_ttl_seconds", 600)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "clips.events")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window_seconds", 60)

	v.SetDefault("seed.on_startup", true)
	v.SetDefault("log.level", "info")
}

// Load reads .env, then the YAML file at path (optional), then the environment.
// APP_PORT overrides app.port, MONGODB_URI overrides mongodb.uri and so on.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.derive()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) derive() {
	if c.App.ShutdownSecond <= 0 {
		c.App.ShutdownSecond = 15
	}
	c.ShutdownTimeout = time.Duration(c.App.ShutdownSecond) * time.Second
	if c.JWT.TTLDays <= 0 {
		c.JWT.TTLDays = 30
	}
	c.TokenTTL = time.Duration(c.JWT.TTLDays) * 24 * time.Hour
	if c.S3.PresignTTL <= 0 {
		c.S3.PresignTTL = 600
	}
	c.PresignTTL = time.Duration(c.S3.PresignTTL) * time.Second
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	c.RateWindow = time.Duration(c.RateLimit.WindowSeconds) * time.Second
	// the multipart envelope adds a little on top of the video itself
	c.BodyLimit = (max(c.App.BodyLimitMB, c.Uploads.MaxVideoMB) + 5) * 1024 * 1024
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	c.Uploads.Driver = strings.ToLower(c.Uploads.Driver)
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	switch c.Store.Driver {
	case "mongo":
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("mongodb.uri and mongodb.database are required for the mongo store"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	switch c.Uploads.Driver {
	case "disk":
		if c.Uploads.Dir == "" {
			errs = append(errs, errors.New("uploads.dir is required for disk uploads"))
		}
	case "s3":
		if c.AWS.Bucket == "" {
			errs = append(errs, errors.New("aws.bucket is required for s3 uploads"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown uploads.driver %q", c.Uploads.Driver))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }
