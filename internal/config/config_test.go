package config

import "testing"

func validBase() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validBase()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validBase()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_SharesMustSumToOne(t *testing.T) {
	cfg := validBase()
	cfg.Search.ArtworkShare = 0.6
	cfg.Search.ArtistShare = 0.6
	cfg.Search.CatalogueShare = 0.1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for shares not summing to 1.0")
	}
}

func TestApplyDefaults_ReferenceValues(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()

	if cfg.Scoring.TextMatchBonus != 50 {
		t.Errorf("text_match_bonus default = %v, want 50", cfg.Scoring.TextMatchBonus)
	}
	if cfg.Scoring.RecencyWindowDays != 7 {
		t.Errorf("recency_window_days default = %v, want 7", cfg.Scoring.RecencyWindowDays)
	}
	if cfg.Preference.ShiftThreshold != 0.7 {
		t.Errorf("shift_threshold default = %v, want 0.7", cfg.Preference.ShiftThreshold)
	}
	if cfg.Preference.InteractionWeights["purchase"] != 10 {
		t.Errorf("purchase weight default = %v, want 10", cfg.Preference.InteractionWeights["purchase"])
	}
	if cfg.Preference.InteractionWeights["reject"] != -2 {
		t.Errorf("reject weight default = %v, want -2", cfg.Preference.InteractionWeights["reject"])
	}
	if cfg.Search.CacheTTLSec != 300 {
		t.Errorf("cache_ttl_sec default = %v, want 300", cfg.Search.CacheTTLSec)
	}
	if cfg.ImageSearch.MinSimilarity != 30 {
		t.Errorf("min_similarity default = %v, want 30", cfg.ImageSearch.MinSimilarity)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidate_ShiftThresholdRange(t *testing.T) {
	cfg := validBase()
	cfg.Preference.ShiftThreshold = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for shift threshold out of range")
	}
}
