package scene

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/octree/octree"
)

// Config describes a simulated scene and the index behind it.
type Config struct {
	Objects int `json:"objects"`
	Frames  int `json:"frames"`
	// Rays is the number of random picking rays cast after each frame.
	Rays int `json:"rays"`
	// Extent is the largest edge length of a spawned object.
	Extent   float64       `json:"extent"`
	MaxSpeed float64       `json:"max_speed"`
	Seed     int64         `json:"seed"`
	Octree   octree.Config `json:"octree"`
}

// DefaultConfig returns a scene of a thousand small objects in a 100 unit cube.
func DefaultConfig() Config {
	return Config{
		Objects:  1000,
		Frames:   600,
		Rays:     10,
		Extent:   2,
		MaxSpeed: 10,
		Seed:     1,
		Octree: octree.Config{
			BranchSize: octree.DefaultBranchSize,
			WorldMin:   r3.Vector{X: -50, Y: -50, Z: -50},
			WorldMax:   r3.Vector{X: 50, Y: 50, Z: 50},
		},
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var err error
	for _, field := range []struct {
		name  string
		value int
	}{
		{"objects", cfg.Objects},
		{"frames", cfg.Frames},
		{"rays", cfg.Rays},
	} {
		if field.value < 0 {
			err = multierr.Append(err, utils.NewConfigValidationError(path,
				errors.Errorf("%s cannot be negative, got %d", field.name, field.value)))
		}
	}
	if cfg.Extent <= 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("extent must be positive, got %v", cfg.Extent)))
	}
	if cfg.MaxSpeed < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("max_speed cannot be negative, got %v", cfg.MaxSpeed)))
	}
	return multierr.Append(err, cfg.Octree.Validate(path+".octree"))
}

// ConfigFromAttributes decodes a config from a generic attribute map on top of DefaultConfig. Unknown keys are
// rejected. The result is not validated.
func ConfigFromAttributes(attributes map[string]interface{}) (*Config, error) {
	conf := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode scene config")
	}
	return &conf, nil
}
