package collector

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// TokenCache memoizes symbol→token lookups so each symbol is resolved at
// most once per run. The map can optionally be persisted between runs.
type TokenCache struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewTokenCache creates an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: make(map[string]string)}
}

// Get returns the cached token for a symbol.
func (c *TokenCache) Get(symbol string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[symbol]
	return token, ok
}

// Put stores a resolved token.
func (c *TokenCache) Put(symbol, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[symbol] = token
}

// Len returns the number of cached symbols.
func (c *TokenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}

// LoadFile merges a previously saved token map. A missing file is not an
// error, the cache just starts cold.
func (c *TokenCache) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var saved map[string]string
	if err := json.Unmarshal(data, &saved); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for symbol, token := range saved {
		c.tokens[symbol] = token
	}
	return nil
}

// SaveFile writes the token map to disk.
func (c *TokenCache) SaveFile(path string) error {
	c.mu.Lock()
	snapshot := make(map[string]string, len(c.tokens))
	for symbol, token := range c.tokens {
		snapshot[symbol] = token
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
