package backtest

import (
	"github.com/go-playground/validator/v10"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EndOfDataPolicy controls what happens to a position still open when the
// table runs out.
type EndOfDataPolicy string

const (
	// EndOfDataExclude reports the open position separately; it is excluded
	// from completed-trade metrics.
	EndOfDataExclude EndOfDataPolicy = "exclude"
	// EndOfDataForceClose closes the position at the last row's close price.
	EndOfDataForceClose EndOfDataPolicy = "force_close"
)

// DefaultAnnualizationFactor assumes daily rows over a trading year.
const DefaultAnnualizationFactor = 252

// Config holds the simulator parameters.
type Config struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital" jsonschema:"description=Starting capital for the simulated account,default=10000" validate:"gt=0"`

	// EndOfDataPolicy decides how a position still open at the last row is
	// reported.
	EndOfDataPolicy EndOfDataPolicy `json:"end_of_data_policy" yaml:"end_of_data_policy" jsonschema:"description=How to treat a position still open at the end of the table,enum=exclude,enum=force_close,default=exclude" validate:"oneof=exclude force_close"`

	AnnualizationFactor int `json:"annualization_factor" yaml:"annualization_factor" jsonschema:"description=Periods per year used to annualize the Sharpe ratio,default=252" validate:"gt=0"`
}

// DefaultConfig returns a simulator config with 10000 starting capital, the
// exclude end-of-data policy, and daily annualization.
func DefaultConfig() Config {
	return Config{
		InitialCapital:      10000,
		EndOfDataPolicy:     EndOfDataExclude,
		AnnualizationFactor: DefaultAnnualizationFactor,
	}
}

// ParseConfig parses a YAML config document. Omitted fields fall back to
// the defaults before validation.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
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
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	return nil
}
