package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/utafrali/catalog-widget/internal/domain"
)

//go:embed sample/products.json
var sampleFeed []byte

// Source yields the raw product records of a catalog.
type Source interface {
	// Load returns every record of the feed in feed order.
	Load(ctx context.Context) ([]domain.Product, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// StaticSource serves an in-memory product list.
type StaticSource struct {
	name     string
	products []domain.Product
}

// NewStaticSource serves the given products.
func NewStaticSource(products []domain.Product) *StaticSource {
	return &StaticSource{name: "static", products: products}
}

// SampleSource serves the built-in sample feed.
func SampleSource() *StaticSource {
	products, err := decodeFeed(sampleFeed)
	if err != nil {
		panic(fmt.Sprintf("embedded sample feed: %v", err))
	}
	return &StaticSource{name: "sample", products: products}
}

func (s *StaticSource) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *StaticSource) Name() string { return s.name }

// FileSource reads a JSON array of product records from disk.
type FileSource struct {
	path string
}

// NewFileSource reads the feed at path on every Load.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return decodeFeed(data)
}

func (s *FileSource) Name() string { return s.path }

func decodeFeed(data []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog feed: %w", err)
	}
	return products, nil
}
