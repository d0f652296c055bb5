// Package gcs reads a reason catalog object from Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

// Config captures the object holding the catalog.
type Config struct {
	Bucket string
	Object string
}

// Source reads the catalog from a single GCS object.
type Source struct {
	client *storage.Client
	bucket string
	object string
}

// New creates a GCS-backed source. The source owns client and closes it on Close.
func New(client *storage.Client, cfg Config) (*Source, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.Object == "" {
		return nil, fmt.Errorf("object name is required")
	}
	return &Source{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
	}, nil
}

// Fetch downloads and decodes the catalog object.
func (s *Source) Fetch(ctx context.Context) ([]reasons.Entry, error) {
	reader, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: %s", reasons.ErrSourceNotFound, s.Location())
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	defer reader.Close() //nolint:errcheck // read-only handle

	entries, err := reasons.Decode(s.object, reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Location(), err)
	}
	return entries, nil
}

// Location implements reasons.Source.
func (s *Source) Location() string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.object)
}

// Close releases the storage client.
func (s *Source) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close storage client: %w", err)
	}
	return nil
}
