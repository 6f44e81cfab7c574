package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// InsecureJWTSecret is the built-in signing key. It is only accepted when
// AEROCODE_ENV=development.
const InsecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string         `yaml:"addr"`
	JWTSecret      string         `yaml:"jwt_secret"`
	APITimeout     time.Duration  `yaml:"timeout"`
	DatabasePath   string         `yaml:"database_path"`
	TokenDuration  time.Duration  `yaml:"token_duration"`
	LogLevel       string         `yaml:"log_level"`
	MetricsEnabled bool           `yaml:"metrics_enabled"`
	BootstrapAdmin BootstrapAdmin `yaml:"bootstrap_admin"`
}

// BootstrapAdmin is the administrator created when the employees table is empty.
type BootstrapAdmin struct {
	Name     string `yaml:"name"`
	Document string `yaml:"document"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
}

// LoadConfig builds the configuration from defaults, a .env file in the
// working directory, the environment and finally the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:           getEnv("AEROCODE_ADDR", ":8080"),
		JWTSecret:      getEnv("AEROCODE_JWT_SECRET", InsecureJWTSecret),
		APITimeout:     apiTimeout,
		DatabasePath:   getEnv("AEROCODE_DATABASE_PATH", "aerocode.db"),
		TokenDuration:  tokenDuration,
		LogLevel:       getEnv("AEROCODE_LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("AEROCODE_METRICS_ENABLED", true),
		BootstrapAdmin: BootstrapAdmin{
			Name:     "Administrator",
			Login:    os.Getenv("AEROCODE_ADMIN_LOGIN"),
			Password: os.Getenv("AEROCODE_ADMIN_PASSWORD"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration before the server starts.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret must not be empty")
	}
	if c.JWTSecret == InsecureJWTSecret && !IsDevelopment() {
		return errors.New("jwt_secret uses the built-in insecure value; set AEROCODE_JWT_SECRET or AEROCODE_ENV=development")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.APITimeout)
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive, got %v", c.TokenDuration)
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.New("database_path must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if (c.BootstrapAdmin.Login == "") != (c.BootstrapAdmin.Password == "") {
		return errors.New("bootstrap_admin needs both login and password")
	}

	return nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
	}
	return l, nil
}

// IsDevelopment reports whether AEROCODE_ENV=development.
func IsDevelopment() bool {
	return os.Getenv("AEROCODE_ENV") == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
