package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the curator API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Search      SearchConfig      `yaml:"search"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	ImageSearch ImageSearchConfig `yaml:"image_search"`
	Preference  PreferenceConfig  `yaml:"preference"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds multi-source search settings. The share fields are the
// per-entity-type slices of the requested limit, each rounded up.
type SearchConfig struct {
	DefaultLimit       int     `yaml:"default_limit"`
	MaxLimit           int     `yaml:"max_limit"`
	ArtworkShare       float64 `yaml:"artwork_share"`
	ArtistShare        float64 `yaml:"artist_share"`
	CatalogueShare     float64 `yaml:"catalogue_share"`
	SubSearchTimeoutMS int     `yaml:"sub_search_timeout_ms"`
	CacheTTLSec        int     `yaml:"cache_ttl_sec"`
}

// ScoringConfig holds the relevance signal weights. The defaults are the
// historically tuned values; they are configuration, not derivation.
type ScoringConfig struct {
	TextMatchBonus     float64 `yaml:"text_match_bonus"`
	KeywordTokenBonus  float64 `yaml:"keyword_token_bonus"`
	AttributeBonus     float64 `yaml:"attribute_bonus"`
	ArtistTokenBonus   float64 `yaml:"artist_token_bonus"`
	PriceFitWeight     float64 `yaml:"price_fit_weight"`
	BudgetUpperBound   float64 `yaml:"budget_upper_bound"`
	LowPriceThreshold  float64 `yaml:"low_price_threshold"`
	PopularityCap      float64 `yaml:"popularity_cap"`
	PopularityScale    float64 `yaml:"popularity_scale"`
	RecencyBonus       float64 `yaml:"recency_bonus"`
	RecencyWindowDays  int     `yaml:"recency_window_days"`
	DiscoveryThreshold float64 `yaml:"discovery_threshold"`
	DiscoveryWeight    float64 `yaml:"discovery_weight"`
}

// ImageSearchConfig holds visual search settings.
type ImageSearchConfig struct {
	PaletteSize    int     `yaml:"palette_size"`
	MinSimilarity  float64 `yaml:"min_similarity"` // 0..100 floor
	MaxResults     int     `yaml:"max_results"`
	MaxUploadBytes int64   `yaml:"max_upload_bytes"`
	ScanLimit      int     `yaml:"scan_limit"` // palette corpus page size
}

// PreferenceConfig holds the taste model tuning knobs. The interaction
// weights and shift threshold are preserved reference values with no
// documented derivation; override in config rather than re-deriving.
type PreferenceConfig struct {
	InteractionWeights   map[string]float64 `yaml:"interaction_weights"`
	PreferenceListCap    int                `yaml:"preference_list_cap"`
	BudgetWidenLow       float64            `yaml:"budget_widen_low"`  // price multiplier, default 0.8
	BudgetWidenHigh      float64            `yaml:"budget_widen_high"` // price multiplier, default 1.2
	ConfidenceStepUp     float64            `yaml:"confidence_step_up"`
	ConfidenceStepDown   float64            `yaml:"confidence_step_down"`
	ShiftThreshold       float64            `yaml:"shift_threshold"`
	RecentWindowSize     int                `yaml:"recent_window_size"`
	RecommendationLimit  int                `yaml:"recommendation_limit"`
	CandidatePoolSize    int                `yaml:"candidate_pool_size"`
}

// DefaultInteractionWeights is the reference per-interaction-type weight
// table used when the config omits it.
func DefaultInteractionWeights() map[string]float64 {
	return map[string]float64{
		"purchase": 10,
		"inquiry":  8,
		"save":     6,
		"like":     4,
		"share":    3,
		"view":     1,
		"reject":   -2,
	}
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "curator:"
	}

	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.ArtworkShare <= 0 {
		c.Search.ArtworkShare = 0.6
	}
	if c.Search.ArtistShare <= 0 {
		c.Search.ArtistShare = 0.3
	}
	if c.Search.CatalogueShare <= 0 {
		c.Search.CatalogueShare = 0.1
	}
	if c.Search.SubSearchTimeoutMS <= 0 {
		c.Search.SubSearchTimeoutMS = 2000
	}
	if c.Search.CacheTTLSec <= 0 {
		c.Search.CacheTTLSec = 300
	}

	if c.Scoring.TextMatchBonus <= 0 {
		c.Scoring.TextMatchBonus = 50
	}
	if c.Scoring.KeywordTokenBonus <= 0 {
		c.Scoring.KeywordTokenBonus = 10
	}
	if c.Scoring.AttributeBonus <= 0 {
		c.Scoring.AttributeBonus = 15
	}
	if c.Scoring.ArtistTokenBonus <= 0 {
		c.Scoring.ArtistTokenBonus = 20
	}
	if c.Scoring.PriceFitWeight <= 0 {
		c.Scoring.PriceFitWeight = 20
	}
	if c.Scoring.BudgetUpperBound <= 0 {
		c.Scoring.BudgetUpperBound = 50000
	}
	if c.Scoring.LowPriceThreshold <= 0 {
		c.Scoring.LowPriceThreshold = 1000
	}
	if c.Scoring.PopularityCap <= 0 {
		c.Scoring.PopularityCap = 20
	}
	if c.Scoring.PopularityScale <= 0 {
		c.Scoring.PopularityScale = 10
	}
	if c.Scoring.RecencyBonus <= 0 {
		c.Scoring.RecencyBonus = 15
	}
	if c.Scoring.RecencyWindowDays <= 0 {
		c.Scoring.RecencyWindowDays = 7
	}
	if c.Scoring.DiscoveryThreshold <= 0 {
		c.Scoring.DiscoveryThreshold = 0.5
	}
	if c.Scoring.DiscoveryWeight <= 0 {
		c.Scoring.DiscoveryWeight = 10
	}

	if c.ImageSearch.PaletteSize <= 0 {
		c.ImageSearch.PaletteSize = 5
	}
	if c.ImageSearch.MinSimilarity <= 0 {
		c.ImageSearch.MinSimilarity = 30
	}
	if c.ImageSearch.MaxResults <= 0 {
		c.ImageSearch.MaxResults = 20
	}
	if c.ImageSearch.MaxUploadBytes <= 0 {
		c.ImageSearch.MaxUploadBytes = 8 << 20
	}
	if c.ImageSearch.ScanLimit <= 0 {
		c.ImageSearch.ScanLimit = 500
	}

	if len(c.Preference.InteractionWeights) == 0 {
		c.Preference.InteractionWeights = DefaultInteractionWeights()
	}
	if c.Preference.PreferenceListCap <= 0 {
		c.Preference.PreferenceListCap = 20
	}
	if c.Preference.BudgetWidenLow <= 0 {
		c.Preference.BudgetWidenLow = 0.8
	}
	if c.Preference.BudgetWidenHigh <= 0 {
		c.Preference.BudgetWidenHigh = 1.2
	}
	if c.Preference.ConfidenceStepUp <= 0 {
		c.Preference.ConfidenceStepUp = 0.1
	}
	if c.Preference.ConfidenceStepDown <= 0 {
		c.Preference.ConfidenceStepDown = 0.05
	}
	if c.Preference.ShiftThreshold <= 0 {
		c.Preference.ShiftThreshold = 0.7
	}
	if c.Preference.RecentWindowSize <= 0 {
		c.Preference.RecentWindowSize = 50
	}
	if c.Preference.RecommendationLimit <= 0 {
		c.Preference.RecommendationLimit = 10
	}
	if c.Preference.CandidatePoolSize <= 0 {
		c.Preference.CandidatePoolSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	shares := c.Search.ArtworkShare + c.Search.ArtistShare + c.Search.CatalogueShare
	if shares < 0.99 || shares > 1.01 {
		return fmt.Errorf("search shares must sum to 1.0, got %.2f", shares)
	}
	if c.Preference.ShiftThreshold < 0 || c.Preference.ShiftThreshold > 1 {
		return fmt.Errorf("preference.shift_threshold must be in [0,1], got %v", c.Preference.ShiftThreshold)
	}
	if c.ImageSearch.MinSimilarity < 0 || c.ImageSearch.MinSimilarity > 100 {
		return fmt.Errorf("image_search.min_similarity must be in [0,100], got %v", c.ImageSearch.MinSimilarity)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
