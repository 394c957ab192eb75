package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret-for-unit-tests")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-unit-tests")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("期望默认端口 5000，实际=%d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("期望默认存储 memory，实际=%s", cfg.Database.Driver)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("期望 AccessTokenTTL=15m，实际=%v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Scheduler.MidnightCron != "0 0 * * *" {
		t.Errorf("期望午夜 cron 为 0 0 * * *，实际=%s", cfg.Scheduler.MidnightCron)
	}
	if cfg.Feature.EnterpriseEnabled {
		t.Error("企业模块默认应关闭")
	}
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("ADMIN_PASSWORD", "s3cret-pass")
	t.Setenv("NODE_ENV", "development")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("期望端口 8081，实际=%d", cfg.Server.Port)
	}
	if len(cfg.Server.CORS.AllowOrigins) != 2 || cfg.Server.CORS.AllowOrigins[1] != "http://b.example" {
		t.Errorf("CORS 来源解析错误: %v", cfg.Server.CORS.AllowOrigins)
	}
	if cfg.Auth.AdminPassword != "s3cret-pass" {
		t.Errorf("期望读取 ADMIN_PASSWORD，实际=%q", cfg.Auth.AdminPassword)
	}
	if !cfg.Server.IsDevelopment() {
		t.Error("NODE_ENV=development 时应为开发环境")
	}
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LIVEBOARD_FEATURE_ENTERPRISE_ENABLED", "true")
	t.Setenv("LIVEBOARD_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if !cfg.Feature.EnterpriseEnabled {
		t.Error("期望企业模块开启")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("期望日志级别 debug，实际=%s", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 5000},
			Database: DatabaseConfig{Driver: "memory"},
			Auth: AuthConfig{
				JWTSecret:        "access-secret-for-unit-tests",
				JWTRefreshSecret: "refresh-secret-for-unit-tests",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"缺少访问密钥", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"访问密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"缺少刷新密钥", func(c *Config) { c.Auth.JWTRefreshSecret = "" }, true},
		{"两个密钥相同", func(c *Config) { c.Auth.JWTRefreshSecret = c.Auth.JWTSecret }, true},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"未知存储驱动", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"postgres 驱动", func(c *Config) { c.Database.Driver = "postgres" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
