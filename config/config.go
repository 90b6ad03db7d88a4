package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database
	DBDriver    string // mysql or sqlite
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for caching
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	CacheEnabled  bool
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// SMTP for PB approval notifications
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      bool
	// Approval mail templates
	MailSubjectApprove string
	MailMsgApprove     string
	MailSubjectReject  string
	MailMsgReject      string
	// Object storage
	StorageDriver    string // s3 or local
	DefaultThumbnail string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3PublicBaseURL  string
	LocalUploadDir   string
	LocalUploadURL   string
	// Geocoding
	GeocodeURL          string
	GeocodeClientID     string
	GeocodeClientSecret string
	// Observability
	SentryDSN      string
	TracingEnabled bool
	OTLPEndpoint   string
	ServiceName    string
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: defaults -> config/config.json -> environment variables
	v := viper.New()
	v.SetConfigFile(filepath.Join("config", "config.json"))
	c, err := LoadFrom(v)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Used by tests and tools that build config by hand.
func Set(c AppConfig) {
	cfg = c
	loaded = true
}

// LoadFrom reads configuration through the given viper instance.
// A missing config file is not an error; environment variables are always consulted.
func LoadFrom(v *viper.Viper) (AppConfig, error) {
	applyDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	c := AppConfig{
		AppPort:            v.GetString("APP_PORT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		AllowedOrigins:     splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		GinMode:            v.GetString("GIN_MODE"),
		GinPath:            v.GetString("GIN_LOG_PATH"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURI: v.GetString("DATABASE_URI"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		CacheEnabled:  v.GetBool("CACHE_ENABLED"),

		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		LogPath:       v.GetString("LOG_PATH"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		LogCompress:   v.GetBool("LOG_COMPRESS"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		SMTPFrom:     v.GetString("SMTP_FROM"),
		SMTPFromName: v.GetString("SMTP_FROM_NAME"),
		SMTPTLS:      v.GetBool("SMTP_TLS"),

		MailSubjectApprove: v.GetString("MAIL_SUBJECT_APPROVE"),
		MailMsgApprove:     v.GetString("MAIL_MSG_APPROVE"),
		MailSubjectReject:  v.GetString("MAIL_SUBJECT_REJECT"),
		MailMsgReject:      v.GetString("MAIL_MSG_REJECT"),

		StorageDriver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DefaultThumbnail: v.GetString("DEFAULT_THUMBNAIL"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Region:         v.GetString("S3_REGION"),
		S3Endpoint:       v.GetString("S3_ENDPOINT"),
		S3AccessKey:      v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:      v.GetString("S3_SECRET_KEY"),
		S3PublicBaseURL:  v.GetString("S3_PUBLIC_BASE_URL"),
		LocalUploadDir:   v.GetString("LOCAL_UPLOAD_DIR"),
		LocalUploadURL:   v.GetString("LOCAL_UPLOAD_URL"),

		GeocodeURL:          v.GetString("GEOCODE_URL"),
		GeocodeClientID:     v.GetString("GEOCODE_CLIENT_ID"),
		GeocodeClientSecret: v.GetString("GEOCODE_CLIENT_SECRET"),

		SentryDSN:      v.GetString("SENTRY_DSN"),
		TracingEnabled: v.GetBool("TRACING_ENABLED"),
		OTLPEndpoint:   v.GetString("OTLP_ENDPOINT"),
		ServiceName:    v.GetString("SERVICE_NAME"),
	}

	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("GIN_LOG_PATH", "logs/gin.log")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "moneybridge")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PATH", "logs/app.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "MoneyBridge")
	v.SetDefault("SMTP_TLS", true)
	v.SetDefault("MAIL_SUBJECT_APPROVE", "[Money Bridge] PB 가입 승인 안내")
	v.SetDefault("MAIL_MSG_APPROVE", "PB 회원가입이 승인되었습니다. 지금 바로 Money Bridge에서 활동을 시작해보세요.")
	v.SetDefault("MAIL_SUBJECT_REJECT", "[Money Bridge] PB 가입 거절 안내")
	v.SetDefault("MAIL_MSG_REJECT", "죄송합니다. PB 회원가입 요청이 거절되었습니다.")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("DEFAULT_THUMBNAIL", "/static/default/thumbnail.png")
	v.SetDefault("S3_REGION", "ap-northeast-2")
	v.SetDefault("LOCAL_UPLOAD_DIR", "static/uploads")
	v.SetDefault("LOCAL_UPLOAD_URL", "/static/uploads")
	v.SetDefault("GEOCODE_URL", "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("SERVICE_NAME", "moneybridge")
}

// Validate checks required fields and value ranges.
func (c AppConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	case "local":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be s3 or local, got %q", c.StorageDriver)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
