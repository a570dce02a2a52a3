// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// EnvLocal локальная разработка.
	EnvLocal = "local"
	// EnvProd боевое окружение: secure-cookie, JSON-логи, скрытые детали ошибок.
	EnvProd = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"APP_ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	Session                 `yaml:"session"`
	PayHere                 `yaml:"payhere"`
	TryOnLink               `yaml:"tryon_link"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Upload                  `yaml:"upload"`
	CORS                    `yaml:"cors"`
	GRPC                    `yaml:"grpc"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"15m"`
}

// Session настройки серверных сессий и cookie.
type Session struct {
	CookieName string        `yaml:"cookie_name" env-default:"tryon_sid"`
	TTL        time.Duration `yaml:"ttl" env-default:"24h"`
}

// PayHere настройки платёжного шлюза.
type PayHere struct {
	MerchantID     string `yaml:"merchant_id" env:"PAYHERE_MERCHANT_ID"`
	MerchantSecret string `yaml:"merchant_secret" env:"PAYHERE_MERCHANT_SECRET" env-required:"true"`
	// SubscriptionPeriod длительность оплаченного окна подписки.
	SubscriptionPeriod time.Duration `yaml:"subscription_period" env-default:"720h"`
}

// TryOnLink настройки подписанных ссылок на примерку.
type TryOnLink struct {
	SecretKey string        `yaml:"secret_key" env:"TRYON_LINK_SECRET" env-required:"true"`
	TTL       time.Duration `yaml:"ttl"`
}

// RabbitMQ настройки брокера. Пустой URL отключает публикацию событий.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового сервера для notification-sender.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// Upload настройки хранения загруженных изображений.
type Upload struct {
	Dir         string `yaml:"dir" env-default:"uploads"`
	MaxFiles    int    `yaml:"max_files" env-default:"5"`
	MaxBodySize int64  `yaml:"max_body_size" env-default:"26214400"`
}

// CORS разрешённые источники фронтенда.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

// GRPC адрес gRPC health-сервера. Пустой адрес отключает сервер.
type GRPC struct {
	GRPCAddress string `yaml:"address"`
}

// IsProd сообщает, запущено ли приложение в боевом окружении.
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// MustLoad функция для загрузки конфига, путь к YAML берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"Session:\n"+
			"  CookieName: %s\n"+
			"  TTL: %s\n"+
			"PayHere:\n"+
			"  MerchantID: %s\n"+
			"  MerchantSecret: %s\n"+
			"TryOnLink:\n"+
			"  SecretKey: %s\n"+
			"  TTL: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  User: %s\n"+
			"  Pass: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		mask(c.RedisConnection.Password),
		c.DB,
		c.CookieName,
		c.Session.TTL,
		c.MerchantID,
		mask(c.MerchantSecret),
		mask(c.SecretKey),
		c.TryOnLink.TTL,
		mask(c.RabbitMQURL),
		c.SMTPHost,
		c.SMTPUser,
		mask(c.SMTPPass),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
