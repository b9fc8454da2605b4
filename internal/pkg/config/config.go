package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	Cashfree CashfreeConfig `mapstructure:"cashfree"`
	Mail     MailConfig     `mapstructure:"mail"`
	OSS      OSSConfig      `mapstructure:"oss"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // hours
}

type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	BaseURL string `mapstructure:"base_url"` // public URL used for return_url / notify_url
}

// CashfreeConfig holds the payment gateway credentials. It is handed to the
// gateway client constructor at startup, never read ad hoc inside handlers.
type CashfreeConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ClientID   string `mapstructure:"client_id"`
	SecretKey  string `mapstructure:"secret_key"`
	APIVersion string `mapstructure:"api_version"`
}

type MailConfig struct {
	SendGridKey string `mapstructure:"sendgrid_key"`
	FromName    string `mapstructure:"from_name"`
	FromEmail   string `mapstructure:"from_email"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

var GlobalConfig Config

// Validate rejects configurations that cannot safely serve traffic.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	// Webhook signature verification is mandatory, so the secret must exist.
	if c.Cashfree.ClientID == "" || c.Cashfree.SecretKey == "" {
		return errors.New("cashfree credentials are required")
	}
	if c.App.BaseURL == "" {
		return errors.New("app.base_url is required for payment callbacks")
	}

	return nil
}

// LoadConfig reads configs/config[.env].yaml plus environment overrides.
func LoadConfig() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("jwt.expire", 168) // admin sessions last 7 days
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("cashfree.base_url", "https://sandbox.cashfree.com")
	viper.SetDefault("cashfree.api_version", "2023-08-01")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// Manual overrides for the values most commonly injected at deploy time.
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if appID := os.Getenv("CASHFREE_APP_ID"); appID != "" {
		GlobalConfig.Cashfree.ClientID = appID
	}
	if secret := os.Getenv("CASHFREE_SECRET_KEY"); secret != "" {
		GlobalConfig.Cashfree.SecretKey = secret
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		GlobalConfig.App.BaseURL = baseURL
	}

	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
