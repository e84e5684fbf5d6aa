package model

// Class buckets a symbol by the kind of setup assigned to it:
// A is aggressive long, B is neutral, C is short-biased.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// StrategyConfig is the per-symbol parameter set consumed by the execution
// layer. JSON tags follow the config.json contract.
type StrategyConfig struct {
	Class         Class   `json:"class"`
	AllowShort    bool    `json:"allow_short"`
	BreakoutLong  float64 `json:"breakout_long"`
	BreakoutShort float64 `json:"breakout_short"`
	Target        float64 `json:"target"`
	SL            float64 `json:"sl"`
	Leverage      float64 `json:"leverage"`
}

// StrategyBook maps symbol to its assigned configuration for one run.
type StrategyBook map[string]StrategyConfig

// DefaultStrategyConfig returns the class B parameter set used when no rule
// matches. Rules override individual fields on top of it.
func DefaultStrategyConfig(allowShort bool) StrategyConfig {
	return StrategyConfig{
		Class:         ClassB,
		AllowShort:    allowShort,
		BreakoutLong:  0.005,
		BreakoutShort: 0.005,
		Target:        0.010,
		SL:            0.005,
		Leverage:      1.0,
	}
}

// Assignment is the final output of the strategy engine for one symbol.
type Assignment struct {
	Symbol string
	Rule   string
	Config StrategyConfig
}
