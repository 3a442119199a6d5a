package model

import "time"

// Config is the process-wide configuration. It is loaded once at startup
// and treated as immutable for the process lifetime; threshold or trust
// table changes require a restart.
type Config struct {
	Thresholds  ThresholdConfig   `yaml:"thresholds" mapstructure:"thresholds"`
	Trust       TrustConfig       `yaml:"trust" mapstructure:"trust"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Queue       QueueConfig       `yaml:"queue" mapstructure:"queue"`
	Verify      VerifyConfig      `yaml:"verify" mapstructure:"verify"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ThresholdConfig holds the two decision gates. These are policy, not
// algorithm: both gates are inclusive and urgency is evaluated first.
type ThresholdConfig struct {
	Urgency     int     `yaml:"urgency" mapstructure:"urgency"`         // >= triggers immediate alert
	Credibility float64 `yaml:"credibility" mapstructure:"credibility"` // >= enables automated response
}

// TrustConfig is the source-trust weighting table used by the credibility
// scorer and the source classifier.
type TrustConfig struct {
	OfficialDomains []string `yaml:"official_domains" mapstructure:"official_domains"`
	NewsDomains     []string `yaml:"news_domains" mapstructure:"news_domains"`
	SocialDomains   []string `yaml:"social_domains" mapstructure:"social_domains"`

	// OfficialKeywords classify sources by name when no domain matches
	// (e.g. "national weather service" in a publisher string).
	OfficialKeywords []string `yaml:"official_keywords" mapstructure:"official_keywords"`

	// Tier weights, each in [0,1]
	OfficialWeight float64 `yaml:"official_weight" mapstructure:"official_weight"`
	NewsWeight     float64 `yaml:"news_weight" mapstructure:"news_weight"`
	SocialWeight   float64 `yaml:"social_weight" mapstructure:"social_weight"`
	UnknownWeight  float64 `yaml:"unknown_weight" mapstructure:"unknown_weight"`

	// MinCorroboration is the item count below which the corroboration
	// penalty applies; SingleSourceCap bounds any single-item score.
	MinCorroboration int     `yaml:"min_corroboration" mapstructure:"min_corroboration"`
	SingleSourceCap  float64 `yaml:"single_source_cap" mapstructure:"single_source_cap"`
}

// LLMConfig configures the LLM-backed analyzer and searcher providers
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // rules, openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"` // For OpenAI-compatible endpoints
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`   // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// HTTPConfig configures outbound HTTP for enrichment and probing
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	WeatherURL string        `yaml:"weather_url" mapstructure:"weather_url"` // Conditions API base URL
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers      int `yaml:"workers" mapstructure:"workers"`             // Batch pipeline workers
	ProbeWorkers int `yaml:"probe_workers" mapstructure:"probe_workers"` // Evidence probe parallelism
}

// CacheConfig configures the enrichment/search cache layers
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// QueueConfig configures the human-review queue store
type QueueConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // JSONL file path
}

// VerifyConfig configures evidence source probing
type VerifyConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"` // Emit the response payload as JSON
}

// DefaultConfig returns the built-in defaults. The trust table is a
// distillation of official disaster-management agencies, wire services and
// weather authorities; extend it via the config file per deployment region.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			Urgency:     8,
			Credibility: 60,
		},
		Trust: TrustConfig{
			OfficialDomains: []string{
				"fema.gov", "weather.gov", "noaa.gov", "usgs.gov",
				"ndma.gov.in", "mausam.imd.gov.in", "metoffice.gov.uk",
				"bom.gov.au", "jma.go.jp", "bmkg.go.id", "pagasa.dost.gov.ph",
				"who.int", "redcross.org", "ifrc.org", "unocha.org",
			},
			NewsDomains: []string{
				"reuters.com", "apnews.com", "afp.com", "bbc.com", "bbc.co.uk",
				"cnn.com", "aljazeera.com", "ndtv.com", "timesofindia.com",
				"accuweather.com", "weather.com",
			},
			SocialDomains: []string{
				"twitter.com", "x.com", "facebook.com", "reddit.com",
				"youtube.com", "tiktok.com",
			},
			OfficialKeywords: []string{
				"government", "ministry", "meteorological", "seismological",
				"emergency management", "civil defense", "disaster management",
				"national weather service", "red cross", "red crescent",
			},
			OfficialWeight:   1.0,
			NewsWeight:       0.7,
			SocialWeight:     0.3,
			UnknownWeight:    0.4,
			MinCorroboration: 3,
			SingleSourceCap:  70,
		},
		LLM: LLMConfig{
			Provider:  "rules",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 1000,
		},
		HTTP: HTTPConfig{
			Timeout:    15 * time.Second,
			UserAgent:  "InfoShield/0.1 (+https://github.com/infoshield/infoshield)",
			WeatherURL: "https://api.open-meteo.com/v1",
		},
		Concurrency: ConcurrencyConfig{
			Workers:      4,
			ProbeWorkers: 10,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   1 * time.Hour,
		},
		Queue: QueueConfig{
			Path: "data/pending_verifications.jsonl",
		},
		Verify: VerifyConfig{
			Enabled:           false,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Output: OutputConfig{},
	}
}
