package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultServerAddress = ":3000"
	DefaultProvider      = "groq"
	DefaultModel         = "llama-3.1-8b-instant"
	DefaultMaxTokens     = 1024
	DefaultUploadTTL     = 60 // minutes
	DefaultCleanInterval = 10 // minutes
	DefaultUploadBackend = "disk"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `mapstructure:"basic_config"`
	Completion  CompletionConfig          `mapstructure:"completion"`
	Redis       RedisConfig               `mapstructure:"redis"`
	Databases   map[string]DatabaseConfig `mapstructure:"databases"`
}

type BasicConfig struct {
	ServerAddress        string `mapstructure:"server_address"`
	UploadDir            string `mapstructure:"upload_dir"`
	UploadBackend        string `mapstructure:"upload_backend"`
	UploadTTLMinutes     int    `mapstructure:"upload_ttl_minutes"`
	CleanIntervalMinutes int    `mapstructure:"clean_interval_minutes"`
	LogLevel             string `mapstructure:"log_level"`
	LogFormat            string `mapstructure:"log_format"`
}

// CompletionConfig describes the LLM provider that answers chat and summary prompts.
type CompletionConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	Params   string `mapstructure:"params"`
}

var credentialEnvs = map[string]string{
	"groq":   "GROQ_API_KEY",
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GOOGLE_API_KEY",
}

// CredentialEnv names the environment variable holding the provider credential.
func (c CompletionConfig) CredentialEnv() string {
	if env, ok := credentialEnvs[strings.ToLower(c.Provider)]; ok {
		return env
	}
	return strings.ToUpper(c.Provider) + "_API_KEY"
}

// Load reads configuration from the provided path (defaults to config.json) and
// overlays PDFCHAT_* environment variables. A missing default file is fine.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = "config.json"
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PDFCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(absPath); err == nil {
		v.SetConfigFile(absPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", absPath, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(filepath.Dir(absPath)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("basic_config.server_address", DefaultServerAddress)
	v.SetDefault("basic_config.upload_dir", filepath.Join(os.TempDir(), "pdfchat-uploads"))
	v.SetDefault("basic_config.upload_backend", DefaultUploadBackend)
	v.SetDefault("basic_config.upload_ttl_minutes", DefaultUploadTTL)
	v.SetDefault("basic_config.clean_interval_minutes", DefaultCleanInterval)
	v.SetDefault("basic_config.log_level", "info")
	v.SetDefault("basic_config.log_format", "json")
	v.SetDefault("completion.provider", DefaultProvider)
	v.SetDefault("completion.base_url", "")
	v.SetDefault("completion.model", DefaultModel)
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.max_tokens", DefaultMaxTokens)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

func (c *Config) normalize(baseDir string) error {
	c.Completion.Provider = strings.ToLower(strings.TrimSpace(c.Completion.Provider))
	if c.Completion.Provider == "" {
		c.Completion.Provider = DefaultProvider
	}
	if c.Completion.APIKey == "" {
		c.Completion.APIKey = os.Getenv(c.Completion.CredentialEnv())
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = DefaultMaxTokens
	}

	switch strings.ToLower(c.BasicConfig.UploadBackend) {
	case "", "disk":
		c.BasicConfig.UploadBackend = "disk"
	case "redis", "mysql":
		c.BasicConfig.UploadBackend = strings.ToLower(c.BasicConfig.UploadBackend)
	case "sqlite", "sqlite3":
		c.BasicConfig.UploadBackend = "sqlite3"
	default:
		return fmt.Errorf("unsupported upload_backend: %s", c.BasicConfig.UploadBackend)
	}

	if c.BasicConfig.UploadDir != "" && !filepath.IsAbs(c.BasicConfig.UploadDir) {
		c.BasicConfig.UploadDir = filepath.Join(baseDir, c.BasicConfig.UploadDir)
	}
	if db, ok := c.Databases["sqlite3"]; ok && db.DSN != "" && !filepath.IsAbs(db.DSN) && !strings.HasPrefix(db.DSN, "file:") {
		db.DSN = filepath.Join(baseDir, db.DSN)
		c.Databases["sqlite3"] = db
	}
	return nil
}
