package scoring

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_profile.yaml
var defaultProfileYAML []byte

var validate = validator.New()

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max" validate:"gtefield=Min"`
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges are checked great, good, okay; the first match wins.
type Ranges struct {
	Great Range `yaml:"great" json:"great"`
	Good  Range `yaml:"good" json:"good"`
	Okay  Range `yaml:"okay" json:"okay"`
}

func (r Ranges) tier(v float64) float64 {
	switch {
	case r.Great.contains(v):
		return tierGreat
	case r.Good.contains(v):
		return tierGood
	case r.Okay.contains(v):
		return tierOkay
	default:
		return tierPoor
	}
}

// ParameterConfig is the weight and ranges of one parameter.
type ParameterConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Weight  float64 `yaml:"weight" json:"weight" validate:"gte=0"`
	Ranges  Ranges  `yaml:"ranges" json:"ranges"`
}

// Profile configures the weighted-range model.
type Profile struct {
	Parameters map[Parameter]ParameterConfig `yaml:"parameters" json:"parameters" validate:"required,dive"`
}

// WithPreferences returns a copy of p with temperature, wind and rain
// disabled when the matching toggle is off.
func (p Profile) WithPreferences(prefs Preferences) Profile {
	out := Profile{Parameters: make(map[Parameter]ParameterConfig, len(p.Parameters))}
	for k, v := range p.Parameters {
		out.Parameters[k] = v
	}
	disable := func(param Parameter, keep bool) {
		if cfg, ok := out.Parameters[param]; ok && !keep {
			cfg.Enabled = false
			out.Parameters[param] = cfg
		}
	}
	disable(ParamTemperature, prefs.ConsiderTemperature)
	disable(ParamWindSpeed, prefs.ConsiderWind)
	disable(ParamPrecipitation, prefs.ConsiderRain)
	return out
}

// Validate checks weights, range bounds and parameter names.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid scoring profile: %w", err)
	}
	for name := range p.Parameters {
		if _, ok := accessors[name]; !ok {
			return fmt.Errorf("invalid scoring profile: unknown parameter %q", name)
		}
	}
	return nil
}

// ParseProfile decodes and validates a YAML profile.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse scoring profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() Profile {
	p, err := ParseProfile(defaultProfileYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadProfile reads a profile from path, or returns the default when path is empty.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read scoring profile: %w", err)
	}
	return ParseProfile(data)
}
