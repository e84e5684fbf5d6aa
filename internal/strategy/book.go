package strategy

import (
	"encoding/json"
	"os"
	"path/filepath"

	"TradePlanner/internal/model"
)

// LoadBook reads a strategy book from a JSON file. Returns an empty book if
// the file doesn't exist.
func LoadBook(path string) (model.StrategyBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.StrategyBook{}, nil
		}
		return nil, err
	}
	var book model.StrategyBook
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	return book, nil
}

// SaveBook writes the strategy book to a JSON file, replacing any previous
// content. Keys serialize sorted, so equal books produce identical bytes.
func SaveBook(path string, book model.StrategyBook) error {
	data, err := json.MarshalIndent(book, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
