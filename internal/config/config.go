package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// DefaultPath путь к файлу конфигурации, если не задан CONFIG_PATH
	DefaultPath = "config.toml"

	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"

	ProviderSES      = "ses"
	ProviderSendGrid = "sendgrid"
	ProviderStub     = "stub"

	ModeInline = "inline"
	ModeAsync  = "async"
	ModeQueue  = "queue"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	CORS          CORSConfig          `toml:"cors"`
	Admin         AdminConfig         `toml:"admin"`
	Site          SiteConfig          `toml:"site"`
	Storage       StorageConfig       `toml:"storage"`
	Redis         RedisConfig         `toml:"redis"`
	Database      DatabaseConfig      `toml:"database"`
	DynamoDB      DynamoDBConfig      `toml:"dynamodb"`
	Email         EmailConfig         `toml:"email"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"ratelimit"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type AdminConfig struct {
	Password string `toml:"password"`
}

type SiteConfig struct {
	// PublicBaseURL адрес сайта для ссылок approve/decline в письмах
	PublicBaseURL string `toml:"public_base_url"`
}

type StorageConfig struct {
	Driver    string `toml:"driver"`
	KeyPrefix string `toml:"key_prefix"`
}

type RedisConfig struct {
	URL      string `toml:"url"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type DatabaseConfig struct {
	DSNOverride     string `toml:"dsn"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	if c.DSNOverride != "" {
		return c.DSNOverride
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type DynamoDBConfig struct {
	Table    string `toml:"table"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	// Статические ключи нужны только для локального DynamoDB; иначе используется стандартная цепочка AWS
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

type EmailConfig struct {
	Provider       string `toml:"provider"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
	CoachEmail     string `toml:"coach_email"`
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	SESRegion      string `toml:"ses_region"`
}

type NotificationsConfig struct {
	Mode    string `toml:"mode"`
	Workers int    `toml:"workers"`
	Buffer  int    `toml:"buffer"`
	// Timeout отправки одного письма в секундах
	Timeout int `toml:"timeout"`
}

// RateLimitConfig ограничение book и admin-login на один IP; rps = 0 отключает
type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
	// TrustedProxies CIDR или адреса прокси, чей X-Forwarded-For учитывается; пусто = только адрес соединения
	TrustedProxies []string `toml:"trusted_proxies"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "coach_booking"},
		Storage: StorageConfig{Driver: DriverRedis, KeyPrefix: "slot:"},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		DynamoDB:      DynamoDBConfig{Table: "coach_slots"},
		Email:         EmailConfig{Provider: ProviderStub, FromName: "Coaching"},
		Notifications: NotificationsConfig{Mode: ModeAsync, Workers: 2, Buffer: 64, Timeout: 10},
		RateLimit:     RateLimitConfig{RPS: 0.2, Burst: 5},
	}
}

// Path возвращает CONFIG_PATH или DefaultPath
func Path() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return DefaultPath
}

// Load читает toml файл поверх значений по умолчанию, затем .env и переменные окружения.
// Отсутствующий файл допустим, только если путь не задан явно через CONFIG_PATH
// (например, в Lambda вся конфигурация приходит из окружения).
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) || os.Getenv("CONFIG_PATH") != "" {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// .env необязателен
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv переопределяет секреты и параметры развертывания из окружения
func (c *Config) applyEnv() error {
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Email.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Database.DSNOverride, "DATABASE_DSN")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.DynamoDB.Table, "DYNAMODB_TABLE")
	setString(&c.DynamoDB.Region, "AWS_REGION")
	setString(&c.DynamoDB.Endpoint, "DYNAMODB_ENDPOINT")
	setString(&c.Email.Provider, "EMAIL_PROVIDER")
	setString(&c.Email.FromEmail, "EMAIL_FROM")
	setString(&c.Email.CoachEmail, "COACH_EMAIL")
	setString(&c.Site.PublicBaseURL, "PUBLIC_BASE_URL")
	setString(&c.Notifications.Mode, "NOTIFICATION_MODE")
	setString(&c.Logs.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("TRUSTED_PROXIES")); v != "" {
		c.RateLimit.TrustedProxies = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, v ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, v...))
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		add("server.http_port %d out of range", c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case DriverRedis:
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			add("redis.url or redis.addr is required for the redis driver")
		}
	case DriverPostgres:
		if c.Database.DSNOverride == "" && c.Database.Host == "" {
			add("database.dsn or database.host is required for the postgres driver")
		}
	case DriverDynamoDB:
		if c.DynamoDB.Table == "" {
			add("dynamodb.table is required for the dynamodb driver")
		}
	case DriverMemory:
	default:
		add("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Email.Provider {
	case ProviderStub:
	case ProviderSES, ProviderSendGrid:
		if c.Email.FromEmail == "" || c.Email.CoachEmail == "" {
			add("email.from_email and email.coach_email are required for provider %q", c.Email.Provider)
		}
		if c.Email.Provider == ProviderSendGrid && c.Email.SendGridAPIKey == "" {
			add("email.sendgrid_api_key (or SENDGRID_API_KEY) is required for sendgrid")
		}
	default:
		add("unknown email.provider %q", c.Email.Provider)
	}

	switch c.Notifications.Mode {
	case ModeInline:
	case ModeAsync:
		if c.Notifications.Workers <= 0 || c.Notifications.Buffer <= 0 {
			add("notifications.workers and notifications.buffer must be positive in async mode")
		}
	case ModeQueue:
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			add("redis.url or redis.addr is required for queue mode")
		}
	default:
		add("unknown notifications.mode %q", c.Notifications.Mode)
	}

	if c.Site.PublicBaseURL != "" {
		u, err := url.Parse(c.Site.PublicBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("site.public_base_url %q must be an absolute http(s) URL", c.Site.PublicBaseURL)
		}
	}

	if c.RateLimit.RPS < 0 {
		add("ratelimit.rps must not be negative")
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			add("ratelimit.trusted_proxies: %q is not an IP or CIDR", proxy)
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		add("metrics.path %q must start with /", c.Metrics.Path)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func validProxy(v string) bool {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "/") {
		_, err := netip.ParsePrefix(v)
		return err == nil
	}
	_, err := netip.ParseAddr(v)
	return err == nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
