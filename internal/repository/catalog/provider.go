// Package catalog loads the laptop catalog from a JSON file.
package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	domcat "github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
)

// FileProvider serves a catalog loaded once at startup. Items are shared
// read-only across sessions.
type FileProvider struct {
	items []domcat.Item
}

// wrapped is the object form of the catalog file.
type wrapped struct {
	Items []domcat.Raw `json:"items"`
}

// NewStatic wraps an in-memory item list.
func NewStatic(items []domcat.Item) *FileProvider {
	return &FileProvider{items: items}
}

// Load reads path and decodes it. The file is either a JSON array of items or
// an object with an "items" array; each item maps category -> field -> scalar.
// An empty catalog is returned together with domain.ErrEmptyCatalog.
func Load(path string, logger *zap.Logger) (*FileProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	raws, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	p := &FileProvider{items: make([]domcat.Item, 0, len(raws))}
	var incomplete int
	for _, raw := range raws {
		it := domcat.FromRaw(raw)
		if !it.Complete() {
			incomplete++
		}
		p.items = append(p.items, it)
	}

	logger.Info("Catalog loaded",
		zap.String("path", path),
		zap.Int("items", len(p.items)),
		zap.Int("incomplete", incomplete),
	)
	if len(p.items) == 0 {
		return p, fmt.Errorf("%s: %w", path, domain.ErrEmptyCatalog)
	}
	return p, nil
}

// Decode parses catalog JSON in either supported form.
func Decode(data []byte) ([]domcat.Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '{' {
		var w wrapped
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("unmarshal catalog object: %w", err)
		}
		return w.Items, nil
	}
	var raws []domcat.Raw
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("unmarshal catalog array: %w", err)
	}
	return raws, nil
}

// Items returns the catalog in file order.
func (p *FileProvider) Items() []domcat.Item { return p.items }

// Len returns the number of items.
func (p *FileProvider) Len() int { return len(p.items) }
