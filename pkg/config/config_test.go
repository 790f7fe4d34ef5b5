package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_NAME", "APP_ENVIRONMENT", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_DBNAME",
		"REDIS_HOST", "REDIS_PORT",
		"KAFKA_ENABLED", "KAFKA_BROKERS",
		"JWT_SECRET",
		"TENANCY_BASE_DOMAIN", "TENANCY_DEFAULT_TENANT_SLUG", "TENANCY_TENANT_HEADER",
		"AUDIT_BUFFER_SIZE",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "localpro-pos" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "localpro-pos")
	}
	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want %q", cfg.App.Environment, "development")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want %d", cfg.Redis.Port, 6379)
	}
	if cfg.Tenancy.DefaultTenantSlug != "default" {
		t.Errorf("Tenancy.DefaultTenantSlug = %q, want %q", cfg.Tenancy.DefaultTenantSlug, "default")
	}
	if cfg.Tenancy.TenantHeader != "X-Tenant" {
		t.Errorf("Tenancy.TenantHeader = %q, want %q", cfg.Tenancy.TenantHeader, "X-Tenant")
	}
	if cfg.Audit.BufferSize != 1000 {
		t.Errorf("Audit.BufferSize = %d, want %d", cfg.Audit.BufferSize, 1000)
	}
	if cfg.Audit.FlushInterval != 5*time.Second {
		t.Errorf("Audit.FlushInterval = %v, want %v", cfg.Audit.FlushInterval, 5*time.Second)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute {
		t.Errorf("JWT.AccessTokenTTL = %v, want %v", cfg.JWT.AccessTokenTTL, 15*time.Minute)
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka.Enabled should default to false")
	}
}

func TestLoad_WithEnvOverride(t *testing.T) {
	clearEnv(t)
	os.Setenv("APP_NAME", "test-app")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DATABASE_HOST", "db.example.com")
	os.Setenv("TENANCY_BASE_DOMAIN", "pos.example.com")
	os.Setenv("TENANCY_DEFAULT_TENANT_SLUG", "main-street")
	defer clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test-app")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.example.com")
	}
	if cfg.Tenancy.BaseDomain != "pos.example.com" {
		t.Errorf("Tenancy.BaseDomain = %q, want %q", cfg.Tenancy.BaseDomain, "pos.example.com")
	}
	if cfg.Tenancy.DefaultTenantSlug != "main-street" {
		t.Errorf("Tenancy.DefaultTenantSlug = %q, want %q", cfg.Tenancy.DefaultTenantSlug, "main-street")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			JWT:     JWTConfig{Secret: "secret"},
			Tenancy: TenancyConfig{DefaultTenantSlug: "default", TenantHeader: "X-Tenant"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty jwt secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"default jwt secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = "change-me-in-production"
		}, true},
		{"default jwt secret in development", func(c *Config) {
			c.App.Environment = "development"
			c.JWT.Secret = "change-me-in-production"
		}, false},
		{"missing default tenant slug", func(c *Config) { c.Tenancy.DefaultTenantSlug = "" }, true},
		{"missing tenant header", func(c *Config) { c.Tenancy.TenantHeader = "" }, true},
		{"kafka enabled without brokers", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "localpro_pos",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=postgres password=postgres dbname=localpro_pos sslmode=disable"
	if dsn := cfg.DSN(); dsn != expected {
		t.Errorf("DSN() = %q, want %q", dsn, expected)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.internal", Port: 6380}
	if addr := cfg.Addr(); addr != "redis.internal:6380" {
		t.Errorf("Addr() = %q, want %q", addr, "redis.internal:6380")
	}
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
	cfg.App.Environment = "development"
	if cfg.IsProduction() {
		t.Error("expected not production")
	}
}
