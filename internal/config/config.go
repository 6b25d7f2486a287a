// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Sitemap   SitemapConfig   `mapstructure:"sitemap"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ExtractorConfig governs candidate ranking and the visit pipeline.
type ExtractorConfig struct {
	StartURLs           []string `mapstructure:"start_urls"`
	MaxCompanies        int      `mapstructure:"max_companies"`
	MaxTeamCandidates   int      `mapstructure:"max_team_candidates"`
	MaxConcurrency      int      `mapstructure:"max_concurrency"`
	TryExpandMenus      bool     `mapstructure:"try_expand_menus"`
	UseSitemapFallback  bool     `mapstructure:"use_sitemap_fallback"`
	UseDepth2Discovery  bool     `mapstructure:"use_depth2_discovery"`
	MaxDiscoveryPages   int      `mapstructure:"max_discovery_pages"`
	RoleIncludeKeywords []string `mapstructure:"role_include_keywords"`
	UserAgent           string   `mapstructure:"user_agent"`
}

// BrowserConfig configures the headless rendering subsystem. When
// Enabled is false, pages are loaded with plain HTTP fetches instead.
type BrowserConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	NavTimeout time.Duration `mapstructure:"nav_timeout"`
	MaxTabs    int           `mapstructure:"max_tabs"`
	DomainQPS  float64       `mapstructure:"domain_qps"`
}

// FetchConfig configures the raw HTTP fetcher used for robots.txt,
// sitemaps, and static page loads.
type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	ProxyURL string        `mapstructure:"proxy_url"`
}

// SitemapConfig bounds sitemap mining.
type SitemapConfig struct {
	MaxFetches int `mapstructure:"max_fetches"`
}

// LLMConfig controls the language-model fallback extractor.
type LLMConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxChars  int           `mapstructure:"max_chars"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SinkConfig selects and configures the output destination.
type SinkConfig struct {
	Provider      string `mapstructure:"provider"`
	JSONLPath     string `mapstructure:"jsonl_path"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	PostgresTable string `mapstructure:"postgres_table"`
	PubSubProject string `mapstructure:"pubsub_project"`
	PubSubTopic   string `mapstructure:"pubsub_topic"`
}

// ArchiveConfig selects and configures the raw snapshot archive. An
// empty provider disables archiving.
type ArchiveConfig struct {
	Provider  string `mapstructure:"provider"`
	LocalDir  string `mapstructure:"local_dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TEAMEXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	cfg.applyClamps()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("extractor.max_companies", 0)
	v.SetDefault("extractor.max_team_candidates", 3)
	v.SetDefault("extractor.max_concurrency", 5)
	v.SetDefault("extractor.try_expand_menus", true)
	v.SetDefault("extractor.use_sitemap_fallback", true)
	v.SetDefault("extractor.use_depth2_discovery", true)
	v.SetDefault("extractor.max_discovery_pages", 2)
	v.SetDefault("extractor.user_agent",
		"Mozilla/5.0 (compatible; AboutUsTeamExtractor/0.1; +https://github.com/firasmosbehi/about-us-team-extractor)")
	v.SetDefault("browser.enabled", true)
	v.SetDefault("browser.nav_timeout", "60s")
	v.SetDefault("browser.max_tabs", 4)
	v.SetDefault("browser.domain_qps", 1.0)
	v.SetDefault("fetch.timeout", "15s")
	v.SetDefault("sitemap.max_fetches", 2)
	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.model", "claude-haiku-4-5")
	v.SetDefault("llm.max_chars", 40000)
	v.SetDefault("llm.max_tokens", 800)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("sink.provider", "jsonl")
	v.SetDefault("sink.jsonl_path", "output/records.jsonl")
	v.SetDefault("sink.postgres_table", "people_records")
	v.SetDefault("archive.provider", "")
	v.SetDefault("archive.prefix", "snapshots")
	v.SetDefault("logging.development", true)
}

// applyClamps pulls out-of-range tuning knobs back into their documented
// ranges instead of rejecting the whole config.
func (c *Config) applyClamps() {
	if c.Extractor.MaxTeamCandidates < 1 {
		c.Extractor.MaxTeamCandidates = 1
	}
	if c.Extractor.MaxTeamCandidates > 10 {
		c.Extractor.MaxTeamCandidates = 10
	}
	if c.Extractor.MaxDiscoveryPages < 0 {
		c.Extractor.MaxDiscoveryPages = 0
	}
	if c.Extractor.MaxDiscoveryPages > 10 {
		c.Extractor.MaxDiscoveryPages = 10
	}
	if c.LLM.MaxChars < 5000 {
		c.LLM.MaxChars = 5000
	}
	if c.LLM.MaxChars > 200000 {
		c.LLM.MaxChars = 200000
	}
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Extractor.MaxConcurrency <= 0 {
		return fmt.Errorf("extractor.max_concurrency must be > 0")
	}
	if c.Extractor.MaxCompanies < 0 {
		return fmt.Errorf("extractor.max_companies must be >= 0")
	}
	if c.Browser.Enabled && c.Browser.MaxTabs <= 0 {
		return fmt.Errorf("browser.max_tabs must be > 0 when the browser is enabled")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Sitemap.MaxFetches < 0 {
		return fmt.Errorf("sitemap.max_fetches must be >= 0")
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key must be set when the LLM fallback is enabled")
	}
	switch c.Sink.Provider {
	case "jsonl":
		if c.Sink.JSONLPath == "" {
			return fmt.Errorf("sink.jsonl_path must be set for the jsonl sink")
		}
	case "postgres":
		if c.Sink.PostgresDSN == "" {
			return fmt.Errorf("sink.postgres_dsn must be set for the postgres sink")
		}
	case "pubsub":
		if c.Sink.PubSubProject == "" || c.Sink.PubSubTopic == "" {
			return fmt.Errorf("sink.pubsub_project and sink.pubsub_topic must be set for the pubsub sink")
		}
	case "memory":
	default:
		return fmt.Errorf("sink.provider must be one of jsonl, postgres, pubsub, memory")
	}
	switch c.Archive.Provider {
	case "":
	case "gcs":
		if c.Archive.GCSBucket == "" {
			return fmt.Errorf("archive.gcs_bucket must be set for the gcs archive")
		}
	case "local":
		if c.Archive.LocalDir == "" {
			return fmt.Errorf("archive.local_dir must be set for the local archive")
		}
	default:
		return fmt.Errorf("archive.provider must be one of \"\", local, gcs")
	}
	return nil
}
