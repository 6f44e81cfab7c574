package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/aerocode/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "aerocode.db",
		TokenDuration: 1 * time.Hour,
		LogLevel:      "info",
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("AEROCODE_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = config.InsecureJWTSecret

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("AEROCODE_ENV", "development")

	cfg := validConfig()
	cfg.JWTSecret = config.InsecureJWTSecret

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Setenv("AEROCODE_ENV", "")

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty secret", func(c *config.Config) { c.JWTSecret = "" }},
		{"zero timeout", func(c *config.Config) { c.APITimeout = 0 }},
		{"negative token duration", func(c *config.Config) { c.TokenDuration = -time.Second }},
		{"empty database path", func(c *config.Config) { c.DatabasePath = "  " }},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }},
		{"admin login without password", func(c *config.Config) { c.BootstrapAdmin.Login = "admin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected Validate to fail")
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "DEBUG"
	if got := cfg.SlogLevel(); got != slog.LevelDebug {
		t.Fatalf("unexpected level: %v", got)
	}
	cfg.LogLevel = "nonsense"
	if got := cfg.SlogLevel(); got != slog.LevelInfo {
		t.Fatalf("expected info fallback, got %v", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Ensure environment does not interfere
	t.Setenv("AEROCODE_ADDR", "")
	t.Setenv("AEROCODE_JWT_SECRET", "")
	t.Setenv("AEROCODE_DATABASE_PATH", "")
	t.Setenv("AEROCODE_ADMIN_LOGIN", "")
	t.Setenv("AEROCODE_METRICS_ENABLED", "")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != config.InsecureJWTSecret {
		t.Fatalf("unexpected JWTSecret: got %q", cfg.JWTSecret)
	}
	if cfg.DatabasePath != "aerocode.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "aerocode.db")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 1*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 1*time.Hour)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
	if cfg.BootstrapAdmin.Login != "" {
		t.Fatalf("expected no bootstrap admin by default, got %q", cfg.BootstrapAdmin.Login)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("AEROCODE_ADDR", ":7000")
	t.Setenv("AEROCODE_ADMIN_LOGIN", "root")
	t.Setenv("AEROCODE_ADMIN_PASSWORD", "toor")
	t.Setenv("AEROCODE_METRICS_ENABLED", "false")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("unexpected Addr: %q", cfg.Addr)
	}
	if cfg.BootstrapAdmin.Login != "root" || cfg.BootstrapAdmin.Password != "toor" {
		t.Fatalf("unexpected bootstrap admin: %#v", cfg.BootstrapAdmin)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("expected metrics disabled from env")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":9090\"\njwt_secret: \"filekey\"\ntimeout: \"30s\"\ndatabase_path: \"test.db\"\ntoken_duration: \"2h\"\nlog_level: \"warn\"\nbootstrap_admin:\n  login: \"boss\"\n  password: \"pw\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "test.db")
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("unexpected log level: %v", cfg.SlogLevel())
	}
	if cfg.BootstrapAdmin.Login != "boss" {
		t.Fatalf("unexpected bootstrap login: %q", cfg.BootstrapAdmin.Login)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AEROCODE_DATABASE_PATH=from-dotenv.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	// godotenv never overrides a variable that is already set
	t.Setenv("AEROCODE_DATABASE_PATH", "")
	os.Unsetenv("AEROCODE_DATABASE_PATH")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DatabasePath != "from-dotenv.db" {
		t.Fatalf("unexpected DatabasePath: %q", cfg.DatabasePath)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("::: not yaml :::"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
