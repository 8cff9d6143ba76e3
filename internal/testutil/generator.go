// Package testutil generates synthetic OHLCV tables for tests.
package testutil

import (
	"math"
	"math/rand"
	"time"

	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// Pattern selects the shape of the generated price path.
type Pattern string

const (
	// PatternIncreasing trends upward with mild noise.
	PatternIncreasing Pattern = "increasing"
	// PatternDecreasing trends downward with mild noise.
	PatternDecreasing Pattern = "decreasing"
	// PatternVolatile wanders with a slight upward bias.
	PatternVolatile Pattern = "volatile"
)

const (
	minimumPrice = 0.01
	baseVolume   = 1000000.0

	increasingNoiseBias = 0.3
	decreasingNoiseBias = 0.7
	volatileUpwardBias  = 0.45
)

// GeneratorConfig configures a synthetic table. Zero-valued optional fields
// get sensible defaults; Seed 0 derives a seed from the clock.
type GeneratorConfig struct {
	StartTime         time.Time
	Interval          time.Duration
	Rows              int
	Pattern           Pattern
	InitialPrice      float64
	TrendStrength     float64
	VolatilityPercent float64
	Seed              int64
}

// Generator produces deterministic mock tables when seeded.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator, filling config defaults.
func NewGenerator(config GeneratorConfig) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if config.StartTime.IsZero() {
		config.StartTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}

	if config.InitialPrice <= 0 {
		config.InitialPrice = 100.0
	}

	if config.TrendStrength <= 0 {
		config.TrendStrength = 0.01
	}

	if config.VolatilityPercent <= 0 {
		config.VolatilityPercent = 2.0
	}

	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Generate produces the table. Rows are strictly increasing by time.
func (g *Generator) Generate() ([]types.MarketData, error) {
	if g.config.Rows <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "rows must be positive")
	}

	data := make([]types.MarketData, g.config.Rows)
	currentPrice := g.config.InitialPrice
	currentTime := g.config.StartTime

	for i := range data {
		var change float64

		switch g.config.Pattern {
		case PatternIncreasing:
			change = g.trendChange(currentPrice, 1, increasingNoiseBias)
		case PatternDecreasing:
			change = g.trendChange(currentPrice, -1, decreasingNoiseBias)
		case PatternVolatile:
			change = g.volatileChange(currentPrice)
		default:
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown pattern %q", g.config.Pattern)
		}

		newPrice := currentPrice + change
		if newPrice <= 0 {
			newPrice = minimumPrice
		}

		open, closePrice := currentPrice, newPrice

		low := math.Min(open, closePrice)
		high := math.Max(open, closePrice)
		spread := high * (g.config.VolatilityPercent / 100.0) * 0.5

		high += g.rng.Float64() * spread
		low -= g.rng.Float64() * spread

		if low <= 0 {
			low = minimumPrice
		}

		data[i] = types.MarketData{
			Time:   currentTime,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: baseVolume * (0.5 + g.rng.Float64()),
		}

		currentPrice = newPrice
		currentTime = currentTime.Add(g.config.Interval)
	}

	return data, nil
}

func (g *Generator) trendChange(price, direction, noiseBias float64) float64 {
	trend := direction * price * g.config.TrendStrength
	noise := price * (g.config.VolatilityPercent / 100.0) * (g.rng.Float64() - noiseBias)

	return trend + noise
}

func (g *Generator) volatileChange(price float64) float64 {
	direction := g.rng.Float64() - volatileUpwardBias

	return price * (g.config.VolatilityPercent / 100.0) * direction
}
