package collector

import (
	"errors"
	"testing"

	"TradePlanner/internal/model"
)

// countingFetcher wraps MockFetcher to observe token resolution traffic.
type countingFetcher struct {
	MockFetcher
	resolveCalls int
}

func (c *countingFetcher) ResolveToken(symbol string) (string, error) {
	c.resolveCalls++
	return c.MockFetcher.ResolveToken(symbol)
}

func TestHistory_MemoizesTokenResolution(t *testing.T) {
	f := &countingFetcher{MockFetcher: MockFetcher{Price: 100}}
	c := NewCollector(f, NewTokenCache(), 95)

	for i := 0; i < 3; i++ {
		if _, err := c.History("SBIN"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.resolveCalls != 1 {
		t.Errorf("expected exactly 1 resolve call, got %d", f.resolveCalls)
	}

	if _, err := c.History("INFY"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.resolveCalls != 2 {
		t.Errorf("expected a new resolve call for a second symbol, got %d", f.resolveCalls)
	}
}

func TestHistory_TokenNotFound(t *testing.T) {
	f := &MockFetcher{Tokens: map[string]string{"SBIN": "3045"}}
	c := NewCollector(f, nil, 95)

	_, err := c.History("UNLISTED")
	if err == nil {
		t.Fatal("expected error for unknown symbol")
	}
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound in chain, got: %v", err)
	}
}

func TestHistory_PrimedCacheSkipsResolution(t *testing.T) {
	f := &countingFetcher{MockFetcher: MockFetcher{Price: 100}}
	cache := NewTokenCache()
	cache.Put("SBIN", "3045")
	c := NewCollector(f, cache, 95)

	if _, err := c.History("SBIN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.resolveCalls != 0 {
		t.Errorf("expected no resolve calls with a primed cache, got %d", f.resolveCalls)
	}
}

func barsFromCloses(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Close: c, Volume: float64(1000 + i)}
	}
	return bars
}

func TestBuildIndicators_Basic(t *testing.T) {
	// current=104, prev=102, three ago=103 (third from the end).
	bars := barsFromCloses(100, 101, 103, 102, 104)
	ind := BuildIndicators("SBIN", bars)

	if ind.Symbol != "SBIN" || ind.BarCount != 5 {
		t.Fatalf("unexpected snapshot identity: %+v", ind)
	}
	if ind.CurrentClose != 104 || ind.PrevClose != 102 || ind.Close3Ago != 103 {
		t.Errorf("unexpected close extraction: %+v", ind)
	}
	wantDay := (104.0 - 102.0) / 102.0 * 100.0
	if ind.DayChange != wantDay {
		t.Errorf("expected day change %.6f, got %.6f", wantDay, ind.DayChange)
	}
	wantMom := (104.0 - 103.0) / 103.0 * 100.0
	if ind.Momentum3d != wantMom {
		t.Errorf("expected momentum %.6f, got %.6f", wantMom, ind.Momentum3d)
	}
	if ind.LastVolume != 1004 {
		t.Errorf("expected last volume 1004, got %.0f", ind.LastVolume)
	}
}

func TestBuildIndicators_TrendSides(t *testing.T) {
	// Rising series finishes above its EMA → BULL.
	up := barsFromCloses(100, 101, 102, 103, 110)
	if ind := BuildIndicators("UP", up); ind.Trend != model.TrendBull {
		t.Errorf("expected BULL for rising series, got %s", ind.Trend)
	}
	// Falling series finishes below its EMA → BEAR.
	down := barsFromCloses(110, 108, 106, 104, 90)
	if ind := BuildIndicators("DOWN", down); ind.Trend != model.TrendBear {
		t.Errorf("expected BEAR for falling series, got %s", ind.Trend)
	}
	// Flat series: close equals EMA, which is not above it.
	flat := barsFromCloses(100, 100, 100)
	if ind := BuildIndicators("FLAT", flat); ind.Trend != model.TrendBear {
		t.Errorf("expected BEAR when close equals EMA, got %s", ind.Trend)
	}
}

func TestBuildIndicators_ShortSeries(t *testing.T) {
	// Two bars: the 3-day base falls back to the previous close.
	two := BuildIndicators("TWO", barsFromCloses(100, 105))
	if two.Close3Ago != two.PrevClose {
		t.Errorf("expected 3-day base to fall back to prev, got %.2f vs %.2f", two.Close3Ago, two.PrevClose)
	}
	if two.Momentum3d != two.DayChange {
		t.Errorf("expected momentum to equal day change with two bars")
	}

	// One bar: prev falls back to current, both changes are zero.
	one := BuildIndicators("ONE", barsFromCloses(100))
	if one.PrevClose != 100 || one.DayChange != 0 || one.Momentum3d != 0 {
		t.Errorf("unexpected one-bar snapshot: %+v", one)
	}

	// No bars at all: neutral zeros, RSI default.
	empty := BuildIndicators("EMPTY", nil)
	if empty.CurrentClose != 0 || empty.RSI14 != 50.0 {
		t.Errorf("unexpected empty snapshot: %+v", empty)
	}
}

func TestBuildIndicators_ZeroPrevGuard(t *testing.T) {
	// A zero previous close must not divide by zero.
	ind := BuildIndicators("ZERO", barsFromCloses(0, 0, 100))
	if ind.DayChange != 0 || ind.Momentum3d != 0 {
		t.Errorf("expected zero-base changes to be 0, got day=%.2f mom=%.2f", ind.DayChange, ind.Momentum3d)
	}
}

func TestTokenCache_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/token_map.json"

	c := NewTokenCache()
	c.Put("SBIN", "3045")
	c.Put("INFY", "1594")
	if err := c.SaveFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh := NewTokenCache()
	if err := fresh.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok, ok := fresh.Get("SBIN"); !ok || tok != "3045" {
		t.Errorf("expected SBIN token to survive the round trip, got %q (%v)", tok, ok)
	}
	if fresh.Len() != 2 {
		t.Errorf("expected 2 cached symbols, got %d", fresh.Len())
	}
}

func TestTokenCache_LoadMissingFile(t *testing.T) {
	c := NewTokenCache()
	if err := c.LoadFile(t.TempDir() + "/absent.json"); err != nil {
		t.Errorf("missing file should not be an error, got: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}
