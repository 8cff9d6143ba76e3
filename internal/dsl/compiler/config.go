package compiler

import (
	"github.com/go-playground/validator/v10"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default indicator periods applied when a DSL indicator call omits one.
const (
	DefaultSMAPeriod = 20
	DefaultEMAPeriod = 20
	DefaultRSIPeriod = 14
)

// Config carries the compiler's default indicator periods. Defaults are
// per-compiler state so that compilations with different defaults can
// coexist; there is no package-level mutable configuration.
type Config struct {
	SMAPeriod int `json:"sma_period" yaml:"sma_period" jsonschema:"description=Default period for sma() calls that omit one,default=20" validate:"gt=0"`
	EMAPeriod int `json:"ema_period" yaml:"ema_period" jsonschema:"description=Default period for ema() calls that omit one,default=20" validate:"gt=0"`
	RSIPeriod int `json:"rsi_period" yaml:"rsi_period" jsonschema:"description=Default period for rsi() calls that omit one,default=14" validate:"gt=0"`
}

// DefaultConfig returns the standard default periods (sma=20, ema=20,
// rsi=14).
func DefaultConfig() Config {
	return Config{
		SMAPeriod: DefaultSMAPeriod,
		EMAPeriod: DefaultEMAPeriod,
		RSIPeriod: DefaultRSIPeriod,
	}
}

// ParseConfig parses a YAML config document. Omitted fields fall back to
// the standard defaults before validation.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse compiler config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the config using go-playground/validator.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid compiler config", err)
	}

	return nil
}
