package collector

import (
	"fmt"
	"log"
	"time"

	"TradePlanner/internal/calculator"
	"TradePlanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Tokens map[string]string        // symbol → token; nil resolves every symbol
	Bars   map[string][]model.OHLCV // per-symbol bars; nil generates a ramp
	Price  float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) ResolveToken(symbol string) (string, error) {
	if m.Tokens == nil {
		return "MOCK-" + symbol, nil
	}
	token, ok := m.Tokens[symbol]
	if !ok {
		return "", fmt.Errorf("%s: %w", symbol, ErrTokenNotFound)
	}
	return token, nil
}

func (m *MockFetcher) FetchDailyBars(symbol, _ string, days int) ([]model.OHLCV, error) {
	if m.Bars != nil {
		return m.Bars[symbol], nil
	}
	return generateMockBars(m.Price, days), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector resolves instrument tokens and fetches daily histories.
type Collector struct {
	Fetcher      Fetcher
	Cache        *TokenCache
	LookbackDays int
}

// NewCollector creates a Collector around a fetcher and a token cache.
func NewCollector(fetcher Fetcher, cache *TokenCache, lookbackDays int) *Collector {
	if cache == nil {
		cache = NewTokenCache()
	}
	return &Collector{Fetcher: fetcher, Cache: cache, LookbackDays: lookbackDays}
}

// History fetches the daily bars for a symbol, resolving and memoizing its
// instrument token on first use.
func (c *Collector) History(symbol string) ([]model.OHLCV, error) {
	token, ok := c.Cache.Get(symbol)
	if !ok {
		var err error
		token, err = c.Fetcher.ResolveToken(symbol)
		if err != nil {
			return nil, fmt.Errorf("resolve token: %w", err)
		}
		c.Cache.Put(symbol, token)
	}
	bars, err := c.Fetcher.FetchDailyBars(symbol, token, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	return bars, nil
}

// BuildIndicators computes the technical snapshot from a symbol's bars.
// Indicator failures degrade to neutral values rather than aborting.
func BuildIndicators(symbol string, bars []model.OHLCV) *model.TickerIndicators {
	closes := calculator.Closes(bars)
	volumes := calculator.Volumes(bars)

	ind := &model.TickerIndicators{
		Symbol:   symbol,
		BarCount: len(bars),
	}
	if len(closes) > 0 {
		ind.CurrentClose = closes[len(closes)-1]
	}
	if len(volumes) > 0 {
		ind.LastVolume = volumes[len(volumes)-1]
	}

	ind.PrevClose = ind.CurrentClose
	if len(closes) >= 2 {
		ind.PrevClose = closes[len(closes)-2]
	}
	// Under three sessions the 3-day base falls back to the previous close.
	ind.Close3Ago = ind.PrevClose
	if len(closes) >= 3 {
		ind.Close3Ago = closes[len(closes)-3]
	}

	ind.DayChange = calculator.PercentChange(ind.PrevClose, ind.CurrentClose)
	ind.Momentum3d = calculator.PercentChange(ind.Close3Ago, ind.CurrentClose)

	if rsi, err := calculator.CalculateRSI(closes, 14); err != nil {
		log.Printf("[WARN] RSI calculation failed for %s: %v, defaulting to 50", symbol, err)
		ind.RSI14 = 50
	} else {
		ind.RSI14 = rsi
	}
	if ema, err := calculator.CalculateEMA(closes, 50); err != nil {
		log.Printf("[WARN] EMA calculation failed for %s: %v, using current close", symbol, err)
		ind.EMA50 = ind.CurrentClose
	} else {
		ind.EMA50 = ema
	}

	ind.Trend = model.TrendBear
	if ind.CurrentClose > ind.EMA50 {
		ind.Trend = model.TrendBull
	}
	return ind
}
