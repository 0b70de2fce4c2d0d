// Package config 提供配置加载功能
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigDir 默认配置目录
const DefaultConfigDir = "configs"

// envPlaceholder 匹配 ${VAR} 或 ${VAR:default}
var envPlaceholder = regexp.MustCompile(`\$\{(\w+)(:([^}]*))?\}`)

// Load 从默认目录加载配置
func Load() (*Config, error) {
	dir := os.Getenv("BOOKFORGE_CONFIG_DIR")
	if dir == "" {
		dir = DefaultConfigDir
	}
	return LoadFrom(dir)
}

// LoadFrom 按优先级加载：config.yaml -> config.$APP_ENV.yaml -> 环境变量 -> 默认值
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), true); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := loadConfigFile(v, filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env)), true); err != nil {
		return nil, err
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换后合并进 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := v.MergeConfig(strings.NewReader(expandEnv(string(content)))); err != nil {
		return fmt.Errorf("failed to merge config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符；未定义且无默认值时替换为空串
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		sub := envPlaceholder.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return sub[3]
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate 校验启动必需的配置项
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case StorageBackendMemory, StorageBackendPostgres, StorageBackendSQLite:
	case StorageBackendRedis:
		if !c.Cache.Redis.Enabled {
			errs = append(errs, errors.New("storage.backend=redis requires cache.redis.enabled"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	if c.Generation.InflightBackend == "redis" && !c.Cache.Redis.Enabled {
		errs = append(errs, errors.New("generation.inflight_backend=redis requires cache.redis.enabled"))
	}

	name, provider, ok := c.LLM.Provider("")
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf("llm provider %q not configured", name))
	case strings.TrimSpace(provider.APIKey) == "":
		errs = append(errs, fmt.Errorf("llm.providers.%s.api_key is empty (set it through the environment)", name))
	case provider.Type != ProviderTypeGemini && provider.Type != ProviderTypeOpenAI:
		errs = append(errs, fmt.Errorf("llm.providers.%s.type must be gemini or openai", name))
	}

	if c.Image.Enabled && strings.TrimSpace(c.Image.APIKey) == "" {
		errs = append(errs, errors.New("image.api_key is empty while image.enabled"))
	}

	if c.Security.JWT.Enabled && strings.TrimSpace(c.Security.JWT.Secret) == "" {
		errs = append(errs, errors.New("security.jwt.secret is required when jwt is enabled"))
	}

	return errors.Join(errs...)
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bookforge-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	// 生成请求可能持续较久
	v.SetDefault("server.http.write_timeout", "180s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.database", "bookforge")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 20)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", "30m")
	v.SetDefault("database.postgres.conn_max_idle_time", "5m")
	v.SetDefault("database.postgres.log_level", "warn")
	v.SetDefault("database.sqlite.path", "data/bookforge.db")
	v.SetDefault("database.sqlite.busy_timeout", "5s")

	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("storage.backend", StorageBackendMemory)
	v.SetDefault("storage.default_namespace", "default")
	v.SetDefault("storage.fixture_cache_ttl", "10m")

	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.providers.gemini.type", ProviderTypeGemini)
	v.SetDefault("llm.providers.gemini.api_key", "")
	v.SetDefault("llm.providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.providers.gemini.model", "gemini-pro")
	v.SetDefault("llm.providers.gemini.timeout", "120s")
	v.SetDefault("llm.providers.gemini.requests_per_minute", 60)
	v.SetDefault("llm.providers.gemini.burst", 5)

	v.SetDefault("image.enabled", false)
	v.SetDefault("image.api_key", "")
	v.SetDefault("image.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("image.model", "imagen-3.0-generate-002")
	v.SetDefault("image.aspect_ratio", "3:4")
	v.SetDefault("image.timeout", "90s")
	v.SetDefault("image.output_dir", "data/covers")
	v.SetDefault("image.public_path", "/static/covers")

	v.SetDefault("generation.inflight_backend", "memory")
	v.SetDefault("generation.inflight_ttl", "5m")

	v.SetDefault("messaging.redis_stream.enabled", false)
	v.SetDefault("messaging.redis_stream.max_len", 10000)
	v.SetDefault("messaging.redis_stream.consumer_group_prefix", "bookforge")
	v.SetDefault("messaging.redis_stream.block_timeout", "5s")
	v.SetDefault("messaging.redis_stream.claim_interval", "30s")
	v.SetDefault("messaging.redis_stream.retry_limit", 3)
	v.SetDefault("messaging.redis_stream.retry_backoff.initial", "1s")
	v.SetDefault("messaging.redis_stream.retry_backoff.max", "30s")
	v.SetDefault("messaging.redis_stream.retry_backoff.multiplier", 2.0)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.insecure", true)
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("security.jwt.enabled", false)
	v.SetDefault("security.jwt.issuer", "bookforge")
	v.SetDefault("security.jwt.expiration", "24h")
	v.SetDefault("security.jwt.refresh_expiration", "168h")
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.requests_per_second", 50)
	v.SetDefault("security.rate_limit.burst", 100)
}
