// Package config handles configuration for testzen-runner.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/testzen-dev/testzen-runner/pkg/resolver"
)

// CIWaitMultiplier stretches time budgets on shared CI hardware, which is
// consistently slower than a developer workstation.
const CIWaitMultiplier = 1.2

// Config represents the runner configuration (config.yaml).
type Config struct {
	Appium   AppiumConfig   `yaml:"appium"`
	Waits    WaitConfig     `yaml:"waits"`
	Scroll   ScrollConfig   `yaml:"scroll"`
	Healing  HealingConfig  `yaml:"healing"`
	Learning LearningConfig `yaml:"learning"`
	Report   ReportConfig   `yaml:"report"`
}

// AppiumConfig points at the automation server.
type AppiumConfig struct {
	URL string `yaml:"url"` // Appium server base URL
}

// WaitConfig holds the resolution time budgets, in milliseconds.
type WaitConfig struct {
	FindTimeoutMs      int `yaml:"findTimeoutMs"`      // overall budget per request
	CandidateTimeoutMs int `yaml:"candidateTimeoutMs"` // direct-stage budget per candidate
	PollIntervalMs     int `yaml:"pollIntervalMs"`     // pause between direct-stage queries
}

// ScrollConfig tunes the scroll search.
type ScrollConfig struct {
	MaxScrolls int `yaml:"maxScrolls"`
	SettleMs   int `yaml:"settleMs"` // pause after each gesture
}

// HealingConfig tunes strategy generation and validation.
type HealingConfig struct {
	ValidatorFloor  float64 `yaml:"validatorFloor"`
	Permissive      bool    `yaml:"permissive"` // accept displayed+enabled when similarity fails
	PredictionFloor float64 `yaml:"predictionFloor"`
	SampleLimit     int     `yaml:"sampleLimit"`
}

// LearningConfig tunes the outcome store.
type LearningConfig struct {
	BatchSize int    `yaml:"batchSize"`
	DBPath    string `yaml:"dbPath"` // empty disables persistence
}

// ReportConfig locates report artifacts.
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Appium: AppiumConfig{URL: "http://localhost:4723"},
		Waits: WaitConfig{
			FindTimeoutMs:      10000,
			CandidateTimeoutMs: 3000,
			PollIntervalMs:     1000,
		},
		Scroll: ScrollConfig{MaxScrolls: 5, SettleMs: 500},
		Healing: HealingConfig{
			ValidatorFloor:  0.5,
			Permissive:      true,
			PredictionFloor: 0.6,
			SampleLimit:     50,
		},
		Learning: LearningConfig{BatchSize: 100},
		Report:   ReportConfig{Dir: "testzen-report"},
	}
}

// Load loads configuration from a file, on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, use defaults
	return Default(), nil
}

// ciEnvVars are checked to detect a CI environment.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_HOME",
	"TRAVIS",
	"CIRCLECI",
	"BITBUCKET_BUILD_NUMBER",
}

// RunningInCI reports whether a known CI environment variable is set.
func RunningInCI() bool {
	for _, v := range ciEnvVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// WaitMultiplier returns the factor applied to time budgets.
func (c *Config) WaitMultiplier() float64 {
	if RunningInCI() {
		return CIWaitMultiplier
	}
	return 1.0
}

// ResolverOptions maps the configuration onto engine options, applying the
// CI multiplier to the time budgets.
func (c *Config) ResolverOptions() resolver.Options {
	m := c.WaitMultiplier()
	return resolver.Options{
		FindTimeout:      scaled(c.Waits.FindTimeoutMs, m),
		CandidateTimeout: scaled(c.Waits.CandidateTimeoutMs, m),
		PollInterval:     time.Duration(c.Waits.PollIntervalMs) * time.Millisecond,
		MaxScrolls:       c.Scroll.MaxScrolls,
		ScrollSettle:     time.Duration(c.Scroll.SettleMs) * time.Millisecond,
		ValidatorFloor:   c.Healing.ValidatorFloor,
		StrictValidation: !c.Healing.Permissive,
		PredictionFloor:  c.Healing.PredictionFloor,
		SampleLimit:      c.Healing.SampleLimit,
	}
}

func scaled(ms int, multiplier float64) time.Duration {
	return time.Duration(float64(ms)*multiplier) * time.Millisecond
}
