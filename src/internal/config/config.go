package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logs             LogsSettings     `mapstructure:"logs"`
	App              Application      `mapstructure:"app"`
	Server           ServerSettings   `mapstructure:"server"`
	Session          SessionSettings  `mapstructure:"session"`
	ExternalServices ExternalServices `mapstructure:"external-services"`
	Database         Database         `mapstructure:"database"`
	Queue            QueueConfig      `mapstructure:"queue"`
	Redis            Redis            `mapstructure:"redis"`
	Security         SecuritySettings `mapstructure:"security"`
	Cache            CacheConfig      `mapstructure:"cache"`
	Catalog          CatalogConfig    `mapstructure:"catalog"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name     string `mapstructure:"name"`
	Timeout  int    `mapstructure:"timeout"`
	Version  string `mapstructure:"version"`
	HostLink string `mapstructure:"host-link"`
}

type ServerSettings struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	ReadTimeout  int    `mapstructure:"read-timeout"`
	WriteTimeout int    `mapstructure:"write-timeout"`
	IdleTimeout  int    `mapstructure:"idle-timeout"`
}

// SessionSettings controls the browser session layer: the two mirrored
// cookies, the mutation gate and the per-browser state registry.
type SessionSettings struct {
	TokenCookie        string `mapstructure:"token-cookie"`
	UserCookie         string `mapstructure:"user-cookie"`
	BrowserCookie      string `mapstructure:"browser-cookie"`
	CookieExpiryDays   int    `mapstructure:"cookie-expiry-days"`
	CookiePath         string `mapstructure:"cookie-path"`
	CookieSecure       bool   `mapstructure:"cookie-secure"`
	LockTimeoutSeconds int    `mapstructure:"lock-timeout-seconds"`
	WaitForTurn        bool   `mapstructure:"wait-for-turn"`
	Backend            string `mapstructure:"backend"`
	IdleMinutes        int    `mapstructure:"idle-minutes"`
}

type ExternalServices struct {
	CommerceAPI CommerceAPIConfig `mapstructure:"commerce-api"`
}

type CommerceAPIConfig struct {
	URL        string `mapstructure:"url"`
	Timeout    int    `mapstructure:"timeout"`
	RetryCount int    `mapstructure:"retry-count"`
}

type Database struct {
	Url             string `mapstructure:"url"`
	DbName          string `mapstructure:"dbname"`
	AuditCollection string `mapstructure:"audit-collection"`
	Timeout         int    `mapstructure:"timeout"`
}

type QueueConfig struct {
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Url                string `mapstructure:"url"`
	Exchange           string `mapstructure:"exchange"`
	ExchangeType       string `mapstructure:"exchange-type"`
	ActivityRoutingKey string `mapstructure:"activity-routing-key"`
	OrderRoutingKey    string `mapstructure:"order-routing-key"`
	ReconnectDelay     int    `mapstructure:"reconnect-delay"`
	Timeout            int    `mapstructure:"timeout"`
	Durable            bool   `mapstructure:"durable"`
	AutoDelete         bool   `mapstructure:"auto-delete"`
	Internal           bool   `mapstructure:"internal"`
	NoWait             bool   `mapstructure:"no-wait"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type SecuritySettings struct {
	JwtKey string `mapstructure:"jwt-key"`
}

type CacheConfig struct {
	CatalogExpirationMinutes int    `mapstructure:"catalog-expiration-minutes"`
	SessionExpirationMinutes int    `mapstructure:"session-expiration-minutes"`
	CartExpirationMinutes    int    `mapstructure:"cart-expiration-minutes"`
	CatalogKey               string `mapstructure:"catalog-key"`
}

type CatalogConfig struct {
	DefaultPageSize int `mapstructure:"default-page-size"`
	MaxPageSize     int `mapstructure:"max-page-size"`
}

func Load() *Configuration {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on process environment")
	}

	cfg := read()
	logrus.Info("Configuration loaded")

	// Override with environment variables
	commerceURL := os.Getenv("COMMERCE_API_URL")
	if commerceURL != "" {
		cfg.ExternalServices.CommerceAPI.URL = commerceURL
	}

	mongoUri := os.Getenv("MONGODB_URL")
	if mongoUri != "" {
		cfg.Database.Url = mongoUri
	}

	dbName := os.Getenv("DB_NAME")
	if dbName != "" {
		cfg.Database.DbName = dbName
	}

	redisUrl := os.Getenv("REDIS_URL")
	if redisUrl != "" {
		cfg.Redis.Url = redisUrl
	}

	redisDB := os.Getenv("REDIS_DB")
	if redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		}
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl != "" {
		cfg.Queue.RabbitMQ.Url = rabbitmqUrl
	}

	jwtKey := os.Getenv("JWT_KEY")
	if jwtKey != "" {
		cfg.Security.JwtKey = jwtKey
	}

	port := os.Getenv("PORT")
	if port != "" {
		cfg.Server.Port = port
	}

	return cfg
}

func read() *Configuration {
	viper.SetConfigFile("src/internal/config/cfg.yml")
	viper.AutomaticEnv()
	viper.SetConfigType("yml")

	var config Configuration

	err := viper.ReadInConfig()
	if err != nil {
		logrus.Panicf("Error reading config file, %s", err)
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		logrus.Panicf("Error unmarshalling config file, %s", err)
	}

	return &config
}
