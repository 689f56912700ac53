package book

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mkrupp/bookshop/internal/domain"
)

//go:embed catalog.json
var embeddedCatalog []byte

// CatalogConfig selects the bootstrap catalog.
type CatalogConfig struct {
	// File is a JSON catalog to load instead of the embedded one
	File string `env:"FILE" default:""`
}

// LoadCatalog returns the configured bootstrap catalog.
func LoadCatalog(cfg CatalogConfig) ([]domain.Book, error) {
	if cfg.File == "" {
		return DecodeCatalog(bytes.NewReader(embeddedCatalog))
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return DecodeCatalog(f)
}

// DecodeCatalog reads a JSON array of books.
func DecodeCatalog(r io.Reader) ([]domain.Book, error) {
	var books []domain.Book

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&books); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return books, nil
}

// RepositoryFactory creates the book repository from the configured catalog.
func RepositoryFactory(cfg CatalogConfig) func() (Repository, error) {
	return func() (Repository, error) {
		books, err := LoadCatalog(cfg)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}

		repo, err := NewMemoryBookRepository(books)
		if err != nil {
			return nil, fmt.Errorf("new book repository: %w", err)
		}

		return repo, nil
	}
}
