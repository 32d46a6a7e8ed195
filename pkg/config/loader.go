package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/VladimirLichonos/tess-two/pkg/observability/logging"
)

var (
	config     *EngineConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches
// it globally.
func Load(configPath string) (*EngineConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses the YAML config file without touching the global cache.
// Missing keys keep their defaults.
func Parse(configPath string) (*EngineConfig, error) {
	// Resolve symlinks to handle mounted config files
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfigStructure(cfg); err != nil {
		return nil, err
	}

	logging.Infof("Config loaded: path=%s, good_threshold=%v, max_matches=%d",
		configPath, cfg.Matcher.GoodThreshold, cfg.Classify.MaxMatches)
	return cfg, nil
}

// Replace replaces the globally cached config. It is safe for concurrent
// readers.
func Replace(newCfg *EngineConfig) {
	configMu.Lock()
	config = newCfg
	configErr = nil
	configMu.Unlock()
}

// Get returns the current configuration, or the defaults when nothing has
// been loaded.
func Get() *EngineConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	if config == nil {
		return Default()
	}
	return config
}

func validateConfigStructure(cfg *EngineConfig) error {
	m := &cfg.Matcher
	c := &cfg.Classify

	checks := []struct {
		ok  bool
		msg string
	}{
		{m.GoodThreshold >= 0 && m.GoodThreshold <= 1, "matcher.good_threshold must be in [0,1]"},
		{m.GreatThreshold >= 0 && m.GreatThreshold <= 1, "matcher.great_threshold must be in [0,1]"},
		{m.PerfectThreshold >= 0 && m.PerfectThreshold <= 1, "matcher.perfect_threshold must be in [0,1]"},
		{m.BadMatchPad >= 0, "matcher.bad_match_pad must be non-negative"},
		{m.RatingMargin >= 0, "matcher.rating_margin must be non-negative"},
		{m.AvgNoiseSize > 0, "matcher.avg_noise_size must be positive"},
		{m.PermanentClassesMin >= 0, "matcher.permanent_classes_min must be non-negative"},
		{m.MinExamplesForPrototyping >= 1, "matcher.min_examples_for_prototyping must be at least 1"},
		{m.SufficientExamplesForPrototyping >= m.MinExamplesForPrototyping,
			"matcher.sufficient_examples_for_prototyping must be >= matcher.min_examples_for_prototyping"},
		{m.ClusteringMaxAngleDelta > 0, "matcher.clustering_max_angle_delta must be positive"},
		{m.IntegerMatcherMultiplier > 0, "matcher.integer_matcher_multiplier must be positive"},
		{c.ClassMissScale >= 0, "classify.class_miss_scale must be non-negative"},
		{c.MisfitJunkPenalty >= 0, "classify.misfit_junk_penalty must be non-negative"},
		{c.MaxMatches >= 1, "classify.max_matches must be at least 1"},
		{c.RatingScale > 0, "classify.rating_scale must be positive"},
		{c.CertaintyScale > 0, "classify.certainty_scale must be positive"},
		{!(c.BaselineOnly && c.CharnormOnly), "classify.baseline_only and classify.charnorm_only are mutually exclusive"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("invalid config: %s", check.msg)
		}
	}
	return nil
}
