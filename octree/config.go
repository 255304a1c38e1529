package octree

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/octree/spatialmath"
)

// Config describes the shape of a tree.
type Config struct {
	// BranchSize defaults to DefaultBranchSize when left at zero.
	BranchSize int       `json:"branch_size,omitempty"`
	WorldMin   r3.Vector `json:"world_min"`
	WorldMax   r3.Vector `json:"world_max"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var err error
	if cfg.BranchSize < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("branch_size must be positive, got %d", cfg.BranchSize)))
	}
	if cfg.WorldMin == (r3.Vector{}) && cfg.WorldMax == (r3.Vector{}) {
		return multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "world_max"))
	}
	if dims := cfg.WorldMax.Sub(cfg.WorldMin); !(dims.X > 0 && dims.Y > 0 && dims.Z > 0) {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf("world_max (%v) must be greater than world_min (%v) on every axis", cfg.WorldMax, cfg.WorldMin)))
	}
	return err
}

// WorldBox returns the volume covered by the tree.
func (cfg *Config) WorldBox() spatialmath.AABB {
	return spatialmath.AABB{Min: cfg.WorldMin, Max: cfg.WorldMax}
}

func (cfg *Config) branchSize() int {
	if cfg.BranchSize == 0 {
		return DefaultBranchSize
	}
	return cfg.BranchSize
}

// ConfigFromAttributes decodes a config from a generic attribute map such as one read from JSON. Unknown keys
// are rejected. The result is not validated.
func ConfigFromAttributes(attributes map[string]interface{}) (*Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "failed to decode octree config")
	}
	return &conf, nil
}
