package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Store      StoreConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Generation GenerationConfig
	Media      MediaConfig
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	BodyLimit      int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// StoreConfig selects the Question Store backend. Driver is one of
// "mongo", "postgres" or "oracle".
type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	SQLDSN        string
	Timeout       time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	Enabled     bool
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmails []string
}

// GenerationConfig configures the generative assist gateway.
type GenerationConfig struct {
	Provider     string // "gemini" or "ollama"
	APIKey       string
	Model        string
	ServerURL    string
	Timeout      time.Duration
	MaxQuestions int
	CacheTTL     time.Duration
	RichPrompt   bool
}

type MediaConfig struct {
	Provider        string // "supabase" or "fs"
	Folder          string
	Timeout         time.Duration
	SupabaseURL     string
	SupabaseKey     string
	SupabaseBucket  string
	FSBaseDir       string
	FSPublicBaseURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.request_timeout", 30)
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("store.driver", "mongo")
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "quizbank")
	v.SetDefault("store.timeout", 10)

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.token_ttl", 24*60)

	v.SetDefault("generation.provider", "gemini")
	v.SetDefault("generation.model", "gemini-1.5-flash")
	v.SetDefault("generation.server_url", "http://localhost:11434")
	v.SetDefault("generation.timeout", 60)
	v.SetDefault("generation.max_questions", 50)
	v.SetDefault("generation.cache_ttl", 600)
	v.SetDefault("generation.rich_prompt", true)

	v.SetDefault("media.provider", "fs")
	v.SetDefault("media.folder", "questionImages")
	v.SetDefault("media.timeout", 30)
	v.SetDefault("media.fs.base_dir", "./data/media")
	v.SetDefault("media.fs.public_base_url", "http://localhost:5000/media")
}

// LoadConfig reads config.yaml (optional) and environment variables.
// Environment keys use "_" in place of ".", e.g. AUTH_JWT_SECRET.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout:   v.GetDuration("server.write_timeout") * time.Second,
			RequestTimeout: v.GetDuration("server.request_timeout") * time.Second,
			BodyLimit:      v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("store.driver")),
			MongoURI:      v.GetString("store.mongo.uri"),
			MongoDatabase: v.GetString("store.mongo.database"),
			SQLDSN:        v.GetString("store.sql.dsn"),
			Timeout:       v.GetDuration("store.timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			Enabled:     v.GetBool("auth.enabled"),
			JWTSecret:   v.GetString("auth.jwt_secret"),
			TokenTTL:    v.GetDuration("auth.token_ttl") * time.Minute,
			AdminEmails: v.GetStringSlice("auth.admin_emails"),
		},
		Generation: GenerationConfig{
			Provider:     strings.ToLower(v.GetString("generation.provider")),
			APIKey:       v.GetString("generation.api_key"),
			Model:        v.GetString("generation.model"),
			ServerURL:    v.GetString("generation.server_url"),
			Timeout:      v.GetDuration("generation.timeout") * time.Second,
			MaxQuestions: v.GetInt("generation.max_questions"),
			CacheTTL:     v.GetDuration("generation.cache_ttl") * time.Second,
			RichPrompt:   v.GetBool("generation.rich_prompt"),
		},
		Media: MediaConfig{
			Provider:        strings.ToLower(v.GetString("media.provider")),
			Folder:          v.GetString("media.folder"),
			Timeout:         v.GetDuration("media.timeout") * time.Second,
			SupabaseURL:     v.GetString("media.supabase.url"),
			SupabaseKey:     v.GetString("media.supabase.key"),
			SupabaseBucket:  v.GetString("media.supabase.bucket"),
			FSBaseDir:       v.GetString("media.fs.base_dir"),
			FSPublicBaseURL: v.GetString("media.fs.public_base_url"),
		},
	}

	// GEMINI_API_KEY is what the hosted model docs tell people to export.
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	return cfg
}

// Validate reports configuration that makes startup impossible.
func (c *Config) Validate() error {
	var problems []string

	switch c.Store.Driver {
	case "mongo":
		if c.Store.MongoURI == "" {
			problems = append(problems, "store.mongo.uri is required for the mongo driver")
		}
	case "postgres", "oracle":
		if c.Store.SQLDSN == "" {
			problems = append(problems, fmt.Sprintf("store.sql.dsn is required for the %s driver", c.Store.Driver))
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported store.driver %q", c.Store.Driver))
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required when auth is enabled")
	}

	switch c.Generation.Provider {
	case "gemini":
		if c.Generation.APIKey == "" {
			problems = append(problems, "generation.api_key (or GEMINI_API_KEY) is required for the gemini provider")
		}
	case "ollama":
		if c.Generation.ServerURL == "" {
			problems = append(problems, "generation.server_url is required for the ollama provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported generation.provider %q", c.Generation.Provider))
	}

	switch c.Media.Provider {
	case "supabase":
		if c.Media.SupabaseURL == "" || c.Media.SupabaseKey == "" || c.Media.SupabaseBucket == "" {
			problems = append(problems, "media.supabase.url, media.supabase.key and media.supabase.bucket are required for the supabase provider")
		}
	case "fs":
	default:
		problems = append(problems, fmt.Sprintf("unsupported media.provider %q", c.Media.Provider))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// IsAdminEmail reports whether email is listed in auth.admin_emails.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.Auth.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}
