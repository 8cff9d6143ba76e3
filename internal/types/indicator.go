package types

// IndicatorType identifies a technical indicator by name. The names double as
// the DSL surface syntax for indicator calls.
type IndicatorType string

const (
	IndicatorTypeSMA IndicatorType = "sma"
	IndicatorTypeEMA IndicatorType = "ema"
	IndicatorTypeRSI IndicatorType = "rsi"
)

// IsValidIndicator reports whether name is a known indicator name.
// Indicator names are case-sensitive.
func IsValidIndicator(name string) bool {
	switch IndicatorType(name) {
	case IndicatorTypeSMA, IndicatorTypeEMA, IndicatorTypeRSI:
		return true
	default:
		return false
	}
}
