package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/labelpmi/pkg/labelpmi/internalerr"
)

// Defaults applied by Load when a field is left out of the file.
const (
	DefaultTopN     = 20
	DefaultMinCount = 1
)

// Config controls tokenization, training and report generation.
type Config struct {
	Smoothing    float64  `yaml:"smoothing"`
	TopN         int      `yaml:"top_n"`
	MinCount     float64  `yaml:"min_count"`
	MinPMI       float64  `yaml:"min_pmi"`
	Labels       []string `yaml:"labels"`        // restrict the report to these labels
	Stoplist     []string `yaml:"stoplist"`      // inline stopwords
	StoplistPath string   `yaml:"stoplist_path"` // YAML file with terms: [...]
	Stem         bool     `yaml:"stem"`
	StripHTML    bool     `yaml:"strip_html"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TopN:     DefaultTopN,
		MinCount: DefaultMinCount,
	}
}

// Load reads a YAML config file on top of Default and validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the engine or ranker cannot honour.
func (c Config) Validate() error {
	if c.Smoothing < 0 || math.IsNaN(c.Smoothing) || math.IsInf(c.Smoothing, 0) {
		return fmt.Errorf("smoothing %v must be a non-negative number: %w", c.Smoothing, internalerr.ErrInvalidConfig)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n %d must not be negative: %w", c.TopN, internalerr.ErrInvalidConfig)
	}
	if c.MinCount < 0 {
		return fmt.Errorf("min_count %v must not be negative: %w", c.MinCount, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Stopwords returns the inline stoplist merged with the stoplist file, if any.
func (c Config) Stopwords() ([]string, error) {
	stops := append([]string(nil), c.Stoplist...)
	if c.StoplistPath == "" {
		return stops, nil
	}

	sl, err := LoadStoplist(c.StoplistPath)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	return append(stops, sl.Terms...), nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
