// Package config loads and validates the sweep configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/daehyun-ko/feedsweep/internal/filter"
	"github.com/daehyun-ko/feedsweep/internal/urlmatch"
)

// Config is the full, immutable configuration of one run.
type Config struct {
	Remove  RemoveConfig    `mapstructure:"remove"`
	Options OptionsConfig   `mapstructure:"options"`
	RunOn   map[string]bool `mapstructure:"run_on"`
	Feed    FeedConfig      `mapstructure:"feed"`
	Output  OutputConfig    `mapstructure:"output"`
	Logging LoggingConfig   `mapstructure:"logging"`
}

// RemoveConfig enables individual conditions. ContainsStrings carries the
// raw pattern groups instead of a boolean: a flat list of strings, or lists
// of strings that must all be present together.
type RemoveConfig struct {
	Uncommented     bool  `mapstructure:"uncommented"`
	Unliked         bool  `mapstructure:"unliked"`
	TextOnly        bool  `mapstructure:"text_only"`
	HasImage        bool  `mapstructure:"has_image"`
	HasVideo        bool  `mapstructure:"has_video"`
	ContainsStrings []any `mapstructure:"contains_strings"`
}

// OptionsConfig holds cross-condition options.
type OptionsConfig struct {
	TargetCount           int   `mapstructure:"target_count"`
	CaseSensitive         bool  `mapstructure:"case_sensitive"`
	Reversed              bool  `mapstructure:"reversed"`
	LinkedConditionGroups []any `mapstructure:"linked_condition_groups"`
	ScrollIntervalMS      int   `mapstructure:"scroll_interval_ms"`
	StarveThreshold       int   `mapstructure:"starve_threshold"`
}

// FeedConfig selects the feed source.
type FeedConfig struct {
	Path    string `mapstructure:"path"`    // replay fixture
	Stdin   bool   `mapstructure:"stdin"`   // live node lines on stdin
	Pattern string `mapstructure:"pattern"` // node line pattern, empty = default
	URL     string `mapstructure:"url"`     // page location for run_on gating
}

// OutputConfig selects the decision sink.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" or "json"
	Path   string `mapstructure:"path"`   // file path, empty = stdout
	Color  bool   `mapstructure:"color"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file (or the default search path
// when path is empty), applying defaults and FEEDSWEEP_* env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("options.target_count", 10)
	v.SetDefault("options.case_sensitive", false)
	v.SetDefault("options.reversed", false)
	v.SetDefault("options.scroll_interval_ms", 100)
	v.SetDefault("options.starve_threshold", 5)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetEnvPrefix("FEEDSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("feedsweep")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/feedsweep")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the whole configuration and returns every violation as a
// human-readable message. Any violation disables the run; there is no
// partial operation on a malformed configuration.
func (c *Config) Validate() []string {
	var problems []string

	if c.Options.TargetCount <= 0 {
		problems = append(problems,
			fmt.Sprintf("options.target_count must be a positive integer, got %d", c.Options.TargetCount))
	}

	rules, err := c.Rules()
	if err != nil {
		problems = append(problems, err.Error())
	}

	opts, err := c.FilterOptions()
	if err != nil {
		problems = append(problems, err.Error())
	} else if _, err := filter.NewEvaluator(rules, opts); err != nil {
		problems = append(problems, err.Error())
	}

	switch c.Output.Format {
	case "text", "json":
	default:
		problems = append(problems,
			fmt.Sprintf("output.format must be \"text\" or \"json\", got %q", c.Output.Format))
	}

	for surface := range c.RunOn {
		if !urlmatch.Known(surface) {
			problems = append(problems, fmt.Sprintf("run_on: unknown surface %q", surface))
		}
	}

	if c.Feed.Path != "" && c.Feed.Stdin {
		problems = append(problems, "feed.path and feed.stdin are mutually exclusive")
	}

	return problems
}

// Rules converts the remove section into evaluator rules.
func (c *Config) Rules() (filter.Rules, error) {
	set, err := filter.NormalizeStringSet(c.Remove.ContainsStrings)
	if err != nil {
		return filter.Rules{}, fmt.Errorf("remove.%w", err)
	}
	return filter.Rules{
		Uncommented:     c.Remove.Uncommented,
		Unliked:         c.Remove.Unliked,
		TextOnly:        c.Remove.TextOnly,
		HasImage:        c.Remove.HasImage,
		HasVideo:        c.Remove.HasVideo,
		ContainsStrings: set,
	}, nil
}

// FilterOptions converts the options section into evaluator options.
func (c *Config) FilterOptions() (filter.Options, error) {
	groups, err := filter.NormalizeGroups(c.Options.LinkedConditionGroups)
	if err != nil {
		return filter.Options{}, fmt.Errorf("options.%w", err)
	}
	return filter.Options{
		TargetCount:   c.Options.TargetCount,
		CaseSensitive: c.Options.CaseSensitive,
		Reversed:      c.Options.Reversed,
		LinkedGroups:  groups,
	}, nil
}

// ScrollInterval returns the passive-scroll cadence.
func (c *Config) ScrollInterval() time.Duration {
	if c.Options.ScrollIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.Options.ScrollIntervalMS) * time.Millisecond
}
