package generator

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlConfig is the on-disk shape FromYAML reads, mirroring Factors' public
// fields with yaml tags instead of being Factors itself — WeightsG is a
// plain slice in the file (padded/truncated to 5 on load) rather than the
// fixed-size array Factors carries internally.
type yamlConfig struct {
	MinProb  float64   `yaml:"min_prob"`
	MaxProb  float64   `yaml:"max_prob"`
	NumArgs  float64   `yaml:"num_args"`
	NumBasic int       `yaml:"num_basic"`
	NumHouse int       `yaml:"num_house"`
	NumCCF   int       `yaml:"num_ccf"`
	CommonB  float64   `yaml:"common_b"`
	CommonG  float64   `yaml:"common_g"`
	ParentsB float64   `yaml:"parents_b"`
	ParentsG float64   `yaml:"parents_g"`
	WeightsG []float64 `yaml:"weights_g"`
	NumGate  int       `yaml:"num_gate"`
}

// FromYAML reads a complexity-factor configuration from r. Fields absent
// from the document keep Factors' zero values, so a partial file combined
// with cmd/ftgen's flag overrides is a valid way to configure a run.
func FromYAML(r io.Reader) (*Factors, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("generator: reading YAML config: %w", err)
	}

	var cfg yamlConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("generator: parsing YAML config: %w", err)
	}

	f := &Factors{
		MinProb:  cfg.MinProb,
		MaxProb:  cfg.MaxProb,
		NumArgs:  cfg.NumArgs,
		NumBasic: cfg.NumBasic,
		NumHouse: cfg.NumHouse,
		NumCCF:   cfg.NumCCF,
		CommonB:  cfg.CommonB,
		CommonG:  cfg.CommonG,
		ParentsB: cfg.ParentsB,
		ParentsG: cfg.ParentsG,
		NumGate:  cfg.NumGate,
	}
	copy(f.WeightsG[:], cfg.WeightsG)
	return f, nil
}
