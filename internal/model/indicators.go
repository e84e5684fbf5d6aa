package model

// Trend labels which side of the EMA50 the latest close sits on.
type Trend string

const (
	TrendBull Trend = "BULL"
	TrendBear Trend = "BEAR"
)

// TickerIndicators holds all computed technical indicators for one symbol.
// Built once per ticker per run and never mutated afterwards.
type TickerIndicators struct {
	Symbol       string
	CurrentClose float64
	PrevClose    float64
	Close3Ago    float64
	DayChange    float64 // percent vs previous close
	Momentum3d   float64 // percent over the last three sessions
	RSI14        float64
	EMA50        float64
	Trend        Trend
	LastVolume   float64 // latest session volume, diagnostics only
	BarCount     int
}
