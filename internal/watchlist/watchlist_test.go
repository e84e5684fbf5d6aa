package watchlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stocks.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeFile(t, `{"tickers": ["SBIN", "INFY", "HAL"]}`)
	tickers, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickers) != 3 || tickers[0] != "SBIN" || tickers[2] != "HAL" {
		t.Errorf("unexpected tickers: %v", tickers)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EmptyList(t *testing.T) {
	path := writeFile(t, `{"tickers": []}`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty ticker list")
	}
}

func TestLoad_MissingKey(t *testing.T) {
	path := writeFile(t, `{"symbols": ["SBIN"]}`)
	if _, err := Load(path); err == nil {
		t.Error("expected error when tickers key is absent")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := writeFile(t, `{"tickers": [`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
