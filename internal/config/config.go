package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Demo    DemoConfig    `mapstructure:"demo"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
}

// DSN prefers an explicit DATABASE_URL over the individual parts.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// AdminConfig seeds the first admin account on startup.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type DemoConfig struct {
	ReportFailures  bool          `mapstructure:"report_failures"`
	UserPassword    string        `mapstructure:"user_password"`
	SeedsFile       string        `mapstructure:"seeds_file"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// envBindings maps config keys to the environment variable names used in
// deployments.
var envBindings = map[string]string{
	"server.port":           "PORT",
	"db.url":                "DATABASE_URL",
	"db.user":               "DB_USER",
	"db.password":           "DB_PASSWORD",
	"db.host":               "DB_HOST",
	"db.port":               "DB_PORT",
	"db.name":               "DB_NAME",
	"redis.addr":            "REDIS_ADDR",
	"jwt.secret":            "JWT_SECRET",
	"admin.email":           "ADMIN_EMAIL",
	"admin.password":        "ADMIN_PASSWORD",
	"demo.report_failures":  "DEMO_REPORT_FAILURES",
	"demo.user_password":    "DEMO_USER_PASSWORD",
	"demo.seeds_file":       "DEMO_SEEDS_FILE",
	"demo.refresh_interval": "DEMO_REFRESH_INTERVAL",
	"tracing.enabled":       "TRACING_ENABLED",
	"tracing.endpoint":      "TRACING_ENDPOINT",
	"tracing.service_name":  "TRACING_SERVICE_NAME",
	"tracing.environment":   "TRACING_ENVIRONMENT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("demo.user_password", "demo-password")
	v.SetDefault("tracing.service_name", "stagebook")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")
}

// Load reads .env (if present), then config.yaml from the usual locations
// (if present), then the environment. A path forces a specific config file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("STAGEBOOK")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
		v.AddConfigPath("./deploy/")
		v.AddConfigPath("$HOME/.stagebook/")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields the server needs to start.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.DB.URL == "" && (c.DB.User == "" || c.DB.Name == "") {
		errs = append(errs, errors.New("DATABASE_URL or DB_USER and DB_NAME are required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Demo.RefreshInterval < 0 {
		errs = append(errs, errors.New("demo refresh interval must not be negative"))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing endpoint is required when tracing is enabled"))
	}
	return errors.Join(errs...)
}
