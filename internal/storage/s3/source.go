// Package s3 reads a reason catalog object from Amazon S3 or an S3-compatible store.
package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

// API is the subset of *s3.Client the source needs.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config captures the object holding the catalog.
type Config struct {
	Bucket string
	Key    string
}

// ClientOptions tunes the client built by NewClient.
type ClientOptions struct {
	Region string
	// Endpoint points the client at an S3-compatible store and switches to path-style addressing.
	Endpoint string
}

// NewClient builds an S3 client from the default credential chain.
func NewClient(ctx context.Context, opts ClientOptions) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Source reads the catalog from a single S3 object.
type Source struct {
	api    API
	bucket string
	key    string
}

// New creates an S3-backed source.
func New(api API, cfg Config) (*Source, error) {
	if api == nil {
		return nil, fmt.Errorf("s3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("object key is required")
	}
	return &Source{api: api, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Fetch downloads and decodes the catalog object.
func (s *Source) Fetch(ctx context.Context) ([]reasons.Entry, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", reasons.ErrSourceNotFound, s.Location())
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close() //nolint:errcheck // read-only body

	entries, err := reasons.Decode(s.key, out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Location(), err)
	}
	return entries, nil
}

// Location implements reasons.Source.
func (s *Source) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Close implements io.Closer. The S3 client holds no resources that need releasing.
func (s *Source) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}
