package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and validates the watch-list file ({"tickers": [...]}).
// A missing file, invalid JSON, or an empty list is an error: without
// symbols there is nothing to plan.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}
	var wf struct {
		Tickers []string `json:"tickers"`
	}
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}
	if len(wf.Tickers) == 0 {
		return nil, fmt.Errorf("watchlist %s contains no tickers", path)
	}
	return wf.Tickers, nil
}
