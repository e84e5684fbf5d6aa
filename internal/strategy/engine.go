package strategy

import "TradePlanner/internal/model"

// DefaultRule labels the class B fall-through when no rule matches.
const DefaultRule = "neutral"

// rule is one entry of the classification ladder: a predicate over the
// indicator snapshot and the overrides it applies to the default config.
type rule struct {
	name    string
	matches func(ind *model.TickerIndicators, allowShort bool) bool
	apply   func(cfg *model.StrategyConfig)
}

// rules is evaluated top to bottom and the first match wins. The order is a
// deliberate tie-break between overlapping setups; do not reorder.
var rules = []rule{
	{
		// Oversold with a green day: aggressive long entry.
		name: "sniper",
		matches: func(ind *model.TickerIndicators, _ bool) bool {
			return ind.RSI14 < 30 && ind.DayChange > 0.1
		},
		apply: func(cfg *model.StrategyConfig) {
			cfg.Class = model.ClassA
			cfg.BreakoutLong = 0.001
			cfg.Target = 0.020
			cfg.SL = 0.010
			cfg.Leverage = 2.0
		},
	},
	{
		// Sustained upside with room before overbought.
		name: "bull-momentum",
		matches: func(ind *model.TickerIndicators, _ bool) bool {
			return ind.Momentum3d > 1.5 && ind.RSI14 < 70 &&
				ind.DayChange > -0.5 && ind.Trend == model.TrendBull
		},
		apply: func(cfg *model.StrategyConfig) {
			cfg.Class = model.ClassA
			cfg.BreakoutLong = 0.002
			cfg.Target = 0.015
			cfg.Leverage = 2.0
		},
	},
	{
		// Downtrend continuation short, skipped for restricted symbols.
		name: "bear-reversal",
		matches: func(ind *model.TickerIndicators, allowShort bool) bool {
			return (ind.Momentum3d < -1.5 || ind.DayChange < -1.5) &&
				ind.RSI14 > 30 && ind.Trend == model.TrendBear && allowShort
		},
		apply: func(cfg *model.StrategyConfig) {
			cfg.Class = model.ClassC
			cfg.BreakoutShort = 0.002
			cfg.Target = 0.015
			cfg.Leverage = 2.0
		},
	},
	{
		// Stretched RSI fade, short side only.
		name: "overbought",
		matches: func(ind *model.TickerIndicators, allowShort bool) bool {
			return ind.RSI14 > 75 && allowShort
		},
		apply: func(cfg *model.StrategyConfig) {
			cfg.Class = model.ClassC
			cfg.BreakoutShort = 0.001
			cfg.Target = 0.010
			cfg.SL = 0.005
		},
	},
}

// Evaluate classifies one symbol's snapshot into its strategy configuration.
// allowShort reflects the restricted-symbol check and gates the short rules;
// fields a matching rule does not override keep their default values.
func Evaluate(ind *model.TickerIndicators, allowShort bool) *model.Assignment {
	cfg := model.DefaultStrategyConfig(allowShort)
	name := DefaultRule
	for _, r := range rules {
		if r.matches(ind, allowShort) {
			r.apply(&cfg)
			name = r.name
			break
		}
	}
	return &model.Assignment{Symbol: ind.Symbol, Rule: name, Config: cfg}
}
