package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied before the config file and environment are consulted.
const (
	DefaultFeedURL      = "https://techcrunch.com/feed/"
	DefaultArticleLimit = 15
	DefaultDataDir      = "data"
	DefaultPort         = 8080
)

// Config holds everything the digest pipeline and API server need. Values are
// resolved in order: defaults, then config.yaml, then environment variables.
type Config struct {
	FeedURL       string `yaml:"rss_url"`
	ArticleLimit  int    `yaml:"article_limit"`
	OpenRouterKey string `yaml:"openrouter_api_key"`
	MistralKey    string `yaml:"mistral_api_key"`
	HTTPReferer   string `yaml:"http_referer"`
	Port          int    `yaml:"port"`

	Storage Storage `yaml:"storage"`
}

// Storage selects and configures the digest store backend.
type Storage struct {
	Backend string `yaml:"backend"` // file, s3 or redis
	DataDir string `yaml:"data_dir"`

	S3    S3    `yaml:"s3"`
	Redis Redis `yaml:"redis"`
}

// S3 configures the object-store backend. Empty Region/Profile fall back to
// the standard AWS config chain.
type S3 struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Redis configures the key-value backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Load builds a Config from defaults, an optional YAML file and environment
// variables. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		FeedURL:      DefaultFeedURL,
		ArticleLimit: DefaultArticleLimit,
		Port:         DefaultPort,
		Storage: Storage{
			Backend: "file",
			DataDir: DefaultDataDir,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.ArticleLimit <= 0 {
		return nil, fmt.Errorf("article limit must be positive, got %d", cfg.ArticleLimit)
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config. Environment always
// wins over the file so deployments can override without editing YAML.
func (c *Config) applyEnv() {
	c.FeedURL = getEnv("RSS_URL", c.FeedURL)
	c.ArticleLimit = getInt("ARTICLE_LIMIT", c.ArticleLimit)
	c.OpenRouterKey = getEnv("OPENROUTER_API_KEY", c.OpenRouterKey)
	c.MistralKey = getEnv("MISTRAL_API_KEY", c.MistralKey)
	c.HTTPReferer = getEnv("HTTP_REFERER", c.HTTPReferer)
	c.Port = getInt("PORT", c.Port)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.DataDir = getEnv("DATA_DIR", c.Storage.DataDir)

	c.Storage.S3.Bucket = getEnv("S3_BUCKET", c.Storage.S3.Bucket)
	c.Storage.S3.Region = getEnv("S3_REGION", c.Storage.S3.Region)
	c.Storage.S3.Profile = getEnv("S3_PROFILE", c.Storage.S3.Profile)
	c.Storage.S3.Prefix = getEnv("S3_PREFIX", c.Storage.S3.Prefix)
	if v := os.Getenv("S3_USE_PATH_STYLE"); v != "" {
		c.Storage.S3.UsePathStyle = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	c.Storage.Redis.Addr = getEnv("REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = getEnv("REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Redis.DB = getInt("REDIS_DB", c.Storage.Redis.DB)
}

// AIConfigured reports whether any AI provider credential is usable. Keys
// left as placeholders (the original config template shipped "YOUR_..." stubs)
// count as absent.
func (c *Config) AIConfigured() bool {
	return c.OpenRouterKey != "" && !strings.HasPrefix(c.OpenRouterKey, "YOUR_")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
