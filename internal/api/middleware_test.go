package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/notfound-service/internal/reasons"
	"github.com/JakeFAU/notfound-service/internal/storage/memory"
)

type fakeIDGen struct {
	id  string
	err error
}

func (f fakeIDGen) NewID() (string, error) {
	return f.id, f.err
}

func TestRequestIDGenerated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig(), testEntries, WithIDGenerator(fakeIDGen{id: "generated-id"}))
	rec := env.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, "generated-id", rec.Header().Get(requestIDHeader))
}

func TestRequestIDPropagatesValidInbound(t *testing.T) {
	t.Parallel()

	const inbound = "0190c1f4-6e0b-7cc3-8c39-5a4e4a6f2b11"
	env := newTestEnv(t, testConfig(), testEntries, WithIDGenerator(fakeIDGen{id: "generated-id"}))

	rec := env.do(t, http.MethodGet, "/health", http.Header{requestIDHeader: {inbound}})
	require.Equal(t, inbound, rec.Header().Get(requestIDHeader))

	rec = env.do(t, http.MethodGet, "/health", http.Header{requestIDHeader: {"<bad id>"}})
	require.Equal(t, "generated-id", rec.Header().Get(requestIDHeader))
}

func TestRequestIDGeneratorFailureStillServes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig(), testEntries, WithIDGenerator(fakeIDGen{err: errors.New("entropy exhausted")}))
	rec := env.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get(requestIDHeader))
}

func TestLoggingMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	srv := NewServer(reasons.NewCache(memory.New(testEntries...)), testConfig(), zap.New(core),
		WithIDGenerator(fakeIDGen{id: "req-1"}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "GET", fields["method"])
	require.Equal(t, "/nowhere", fields["path"])
	require.EqualValues(t, http.StatusNotFound, fields["status"])
	require.Equal(t, "req-1", fields["request_id"])
}
