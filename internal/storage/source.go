// Package storage opens the reason catalog source named by a location string.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcsclient "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/JakeFAU/notfound-service/internal/reasons"
	"github.com/JakeFAU/notfound-service/internal/storage/gcs"
	"github.com/JakeFAU/notfound-service/internal/storage/local"
	"github.com/JakeFAU/notfound-service/internal/storage/memory"
	"github.com/JakeFAU/notfound-service/internal/storage/postgres"
	"github.com/JakeFAU/notfound-service/internal/storage/s3"
)

// Source is a catalog source that holds resources until closed.
type Source interface {
	reasons.Source
	io.Closer
}

// Options carries the per-backend settings that do not fit in the location.
type Options struct {
	// Table names the Postgres table for postgres:// locations.
	Table string
	// AWSRegion and AWSEndpoint tune the S3 client for s3:// locations.
	AWSRegion   string
	AWSEndpoint string
	// GCSClientOptions are passed to the GCS client for gs:// locations.
	GCSClientOptions []option.ClientOption
}

// Open builds the Source for location. Plain paths and file:// URIs read local files;
// gs://, s3://, postgres://, postgresql:// and memory:// select the matching backend.
func Open(ctx context.Context, location string, opts Options) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("catalog location is required")
	}
	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return local.New(local.Config{Path: location})
	}

	switch strings.ToLower(scheme) {
	case "file":
		return local.New(local.Config{Path: rest})
	case "memory":
		return memory.New(), nil
	case "gs":
		bucket, object, err := splitObject(location)
		if err != nil {
			return nil, err
		}
		client, err := gcsclient.NewClient(ctx, opts.GCSClientOptions...)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		src, err := gcs.New(client, gcs.Config{Bucket: bucket, Object: object})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return src, nil
	case "s3":
		bucket, key, err := splitObject(location)
		if err != nil {
			return nil, err
		}
		client, err := s3.NewClient(ctx, s3.ClientOptions{Region: opts.AWSRegion, Endpoint: opts.AWSEndpoint})
		if err != nil {
			return nil, err
		}
		return s3.New(client, s3.Config{Bucket: bucket, Key: key})
	case "postgres", "postgresql":
		return postgres.New(ctx, postgres.Config{DSN: location, Table: opts.Table})
	default:
		return nil, fmt.Errorf("unsupported catalog location scheme %q", scheme)
	}
}

// splitObject parses scheme://bucket/object/path.
func splitObject(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse catalog location: %w", err)
	}
	object := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || object == "" {
		return "", "", fmt.Errorf("catalog location %q must name a bucket and an object", location)
	}
	return u.Host, object, nil
}
