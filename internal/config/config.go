package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	DB       DBConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Leave    LeaveConfig    `mapstructure:"leave"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
	Frontend FrontendConfig `mapstructure:"frontend"`
	Default  DefaultConfig  `mapstructure:"default"`
}

type AppConfig struct {
	Env string `mapstructure:"env" validate:"required,oneof=development production test"`
}

func (c AppConfig) IsProduction() bool { return c.Env == "production" }

type HTTPConfig struct {
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"required"`
}

type DBConfig struct {
	Host       string `mapstructure:"host" validate:"required"`
	Port       string `mapstructure:"port" validate:"required"`
	User       string `mapstructure:"user" validate:"required"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name" validate:"required"`
	SSLMode    string `mapstructure:"sslmode" validate:"required"`
	MaxRetries int    `mapstructure:"max_retries" validate:"min=1"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type KafkaConfig struct {
	Broker  string `mapstructure:"broker"`
	GroupID string `mapstructure:"group_id" validate:"required"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret" validate:"required,min=16"`
	Expire time.Duration `mapstructure:"expire" validate:"required"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=0,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required,email"`
}

// LeaveConfig holds the entitlement a newly registered account starts with.
type LeaveConfig struct {
	DefaultSick     float64 `mapstructure:"default_sick" validate:"min=0"`
	DefaultCasual   float64 `mapstructure:"default_casual" validate:"min=0"`
	DefaultVacation float64 `mapstructure:"default_vacation" validate:"min=0"`
}

func (c LeaveConfig) Sick() decimal.Decimal     { return decimal.NewFromFloat(c.DefaultSick) }
func (c LeaveConfig) Casual() decimal.Decimal   { return decimal.NewFromFloat(c.DefaultCasual) }
func (c LeaveConfig) Vacation() decimal.Decimal { return decimal.NewFromFloat(c.DefaultVacation) }

type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`
}

type FrontendConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type DefaultConfig struct {
	ManagerEmail string `mapstructure:"manager_email" validate:"omitempty,email"`
}

var defaults = map[string]any{
	"app.env":                "development",
	"http.port":              "3000",
	"http.read_timeout":      5 * time.Second,
	"http.write_timeout":     10 * time.Second,
	"http.idle_timeout":      60 * time.Second,
	"db.host":                "localhost",
	"db.port":                "5432",
	"db.user":                "postgres",
	"db.password":            "",
	"db.name":                "go_leave",
	"db.sslmode":             "disable",
	"db.max_retries":         5,
	"redis.addr":             "localhost:6379",
	"redis.password":         "",
	"redis.db":               0,
	"kafka.broker":           "",
	"kafka.group_id":         "go-leave-mailer",
	"jwt.secret":             "",
	"jwt.expire":             7 * 24 * time.Hour,
	"smtp.host":              "",
	"smtp.port":              587,
	"smtp.username":          "",
	"smtp.password":          "",
	"smtp.from":              "no-reply@go-leave.local",
	"leave.default_sick":     10,
	"leave.default_casual":   5,
	"leave.default_vacation": 5,
	"outbox.poll_interval":   3 * time.Second,
	"frontend.url":           "http://localhost:3001",
	"default.manager_email":  "",
}

// Load reads .env (when present) and the process environment. Keys map to
// environment variables by upper-casing and replacing dots, e.g. db.host -> DB_HOST.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
