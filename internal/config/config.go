package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	AI        AIConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）

	// 保护可热更新的配置段，请求协程经 AnalyticsSettings 读取
	mu sync.RWMutex `mapstructure:"-"`
}

// AnalyticsSettings 返回分析阈值的快照。配置热更新和请求处理
// 并发进行，直接读字段会撞上 watcher 的写入
func (c *Config) AnalyticsSettings() AnalyticsConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Analytics
}

// ApplyHotReload 配置文件变更后替换可热更新的配置段。
// 限流窗口、连接类配置在启动时已经固化，不在热更新范围内
func (c *Config) ApplyHotReload(newCfg *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Analytics = newCfg.Analytics
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AnalyticsConfig 表现分析阈值。数值来自原始系统的固定常量，
// 这里下放为可调配置
type AnalyticsConfig struct {
	StruggleAttempts  int `mapstructure:"struggle_attempts"`  // 尝试次数超过该值视为薄弱
	StruggleMinutes   int `mapstructure:"struggle_minutes"`   // 耗时超过该值（分钟）视为薄弱
	StrongMinutes     int `mapstructure:"strong_minutes"`     // 完成且耗时低于该值（分钟）视为强项
	CacheTTLSeconds   int `mapstructure:"cache_ttl_seconds"`  // 分析快照的 Redis 缓存时长
	RecomputeRetries  int `mapstructure:"recompute_retries"`  // 聚合重算乐观锁冲突的重试次数
	MinDurationWeeks  int `mapstructure:"min_duration_weeks"` // 路径预估时长下限
	BaseWeeksPerSkill int `mapstructure:"base_weeks_per_skill"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CAREER_OS")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// 分析阈值默认值（可被配置覆盖）
	viper.SetDefault("analytics.struggle_attempts", 3)
	viper.SetDefault("analytics.struggle_minutes", 480)
	viper.SetDefault("analytics.strong_minutes", 120)
	viper.SetDefault("analytics.cache_ttl_seconds", 300)
	viper.SetDefault("analytics.recompute_retries", 3)
	viper.SetDefault("analytics.min_duration_weeks", 2)
	viper.SetDefault("analytics.base_weeks_per_skill", 4)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
