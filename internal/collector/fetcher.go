package collector

import (
	"errors"

	"TradePlanner/internal/model"
)

// ErrTokenNotFound is returned when the exchange search has no exact equity
// match for a symbol.
var ErrTokenNotFound = errors.New("instrument token not found")

// Fetcher defines the interface for resolving instruments and fetching
// market data from a brokerage source.
type Fetcher interface {
	ResolveToken(symbol string) (string, error)
	FetchDailyBars(symbol, token string, days int) ([]model.OHLCV, error)
	Name() string
}
