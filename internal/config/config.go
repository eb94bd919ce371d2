// Package config 載入服務設定
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

const (
	ModeProduction = "production"
	ModeLegacy     = "legacy"

	// DevSecret 只在 legacy 模式且未設定 JWT_SECRET 時使用
	DevSecret = "dev-secret"
)

var envFile = ".env"

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type AppConfig struct {
	Mode string `mapstructure:"mode"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig Addr 為空時停用看板快取
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	BoardTTL time.Duration `mapstructure:"board_ttl"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// DevSecretInUse 表示 JWTSecret 是 legacy 模式補上的 DevSecret
	DevSecretInUse bool `mapstructure:"-"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// 設定鍵與環境變數的對應
var envBindings = map[string]string{
	"app.mode":                "APP_MODE",
	"app.env":                 "APP_ENV",
	"server.port":             "PORT",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"database.url":            "DATABASE_URL",
	"redis.addr":              "REDIS_ADDR",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"redis.board_ttl":         "BOARD_CACHE_TTL",
	"auth.jwt_secret":         "JWT_SECRET",
	"logging.level":           "LOG_LEVEL",
	"cors.allow_origins":      "CORS_ALLOW_ORIGINS",
}

// Load 由環境變數（與可選的 .env）讀取設定並驗證
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase 給只需要資料庫的工具（如 seed）使用，僅要求 DATABASE_URL
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

func read() (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORS.AllowOrigins = splitList(cfg.CORS.AllowOrigins)
	cfg.App.Mode = strings.ToLower(strings.TrimSpace(cfg.App.Mode))

	if cfg.IsLegacy() && cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DevSecret
		cfg.Auth.DevSecretInUse = true
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.mode", ModeProduction)
	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.board_ttl", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("cors.allow_origins", []string{"*"})
}

// 環境變數給的是以逗號分隔的單一字串
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// IsLegacy 回傳是否為相容舊版行為的模式
func (c *Config) IsLegacy() bool {
	return c.App.Mode == ModeLegacy
}

// IsProduction 以 APP_ENV 判斷輸出格式等環境相關行為
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Addr 回傳 HTTP 監聽位址
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) Validate() error {
	var errs []error
	switch c.App.Mode {
	case ModeProduction, ModeLegacy:
	default:
		errs = append(errs, fmt.Errorf("invalid APP_MODE %q", c.App.Mode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Server.Port))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Redis.BoardTTL < 0 {
		errs = append(errs, errors.New("BOARD_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}
