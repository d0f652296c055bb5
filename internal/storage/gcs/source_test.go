// Package gcs_test contains unit tests for the GCS catalog source.
package gcs_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/JakeFAU/notfound-service/internal/reasons"
	"github.com/JakeFAU/notfound-service/internal/storage/gcs"
)

// newTestSource creates a Source pointed at a test server.
func newTestSource(t *testing.T, object string, handler http.Handler) *gcs.Source {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := storage.NewClient(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
		storage.WithJSONReads(),
	)
	require.NoError(t, err)

	src, err := gcs.New(client, gcs.Config{Bucket: "test-bucket", Object: object})
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestNew(t *testing.T) {
	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck // test cleanup

	_, err = gcs.New(nil, gcs.Config{Bucket: "b", Object: "o"})
	assert.Error(t, err)
	_, err = gcs.New(client, gcs.Config{Object: "o"})
	assert.Error(t, err)
	_, err = gcs.New(client, gcs.Config{Bucket: "b"})
	assert.Error(t, err)
}

func TestSourceFetch(t *testing.T) {
	body := `{"reasons":[{"message":"m","reason":"r","category":"science"}]}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/reasons.json"), "unexpected path %s", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
	src := newTestSource(t, "reasons.json", handler)

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []reasons.Entry{{Message: "m", Reason: "r", Category: "science"}}, entries)
	assert.Equal(t, "gs://test-bucket/reasons.json", src.Location())
}

func TestSourceFetchNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"No such object"}}`, http.StatusNotFound)
	})
	src := newTestSource(t, "reasons.json", handler)

	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, reasons.ErrSourceNotFound)
}

func TestSourceFetchMalformed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"reasons": [`)
	})
	src := newTestSource(t, "reasons.json", handler)

	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, reasons.ErrMalformedCatalog)
}

func TestSourceFetchServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	src := newTestSource(t, "reasons.json", handler)

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, reasons.ErrSourceNotFound)
}
