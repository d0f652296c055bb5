// Package local reads a reason catalog from the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

// Config captures the parameters for the local filesystem source.
type Config struct {
	// Path is the catalog document, JSON or YAML by extension.
	Path string
}

// Source reads the catalog document from disk on every Fetch.
type Source struct {
	path string
}

// New creates a local filesystem-backed source. The file need not exist yet.
func New(cfg Config) (*Source, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	return &Source{path: filepath.Clean(cfg.Path)}, nil
}

// Fetch reads and decodes the catalog file.
func (s *Source) Fetch(ctx context.Context) ([]reasons.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", reasons.ErrSourceNotFound, s.path)
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", reasons.ErrMalformedCatalog, s.path)
	}

	entries, err := reasons.Decode(s.path, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return entries, nil
}

// Location implements reasons.Source.
func (s *Source) Location() string {
	return "file://" + s.path
}

// Close implements io.Closer.
func (s *Source) Close() error {
	return nil
}
