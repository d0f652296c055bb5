package api

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/notfound-service/internal/metrics"
	"github.com/JakeFAU/notfound-service/internal/negotiate"
	"github.com/JakeFAU/notfound-service/internal/publisher"
	"github.com/JakeFAU/notfound-service/internal/reasons"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type readyResponse struct {
	Status  string         `json:"status"`
	Catalog reasons.Status `json:"catalog"`
}

// notFoundResponse is the JSON rendering of a selected reason.
type notFoundResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Reason     string `json:"reason"`
	Category   string `json:"category,omitempty"`
}

type listResponse struct {
	Total   int             `json:"total"`
	Reasons []reasons.Entry `json:"reasons"`
}

type reloadResponse struct {
	Status    string `json:"status"`
	Total     int    `json:"total"`
	Broadcast bool   `json:"broadcast"`
}

func newNotFoundResponse(e reasons.Entry) notFoundResponse {
	return notFoundResponse{
		Error:      http.StatusText(http.StatusNotFound),
		StatusCode: http.StatusNotFound,
		Message:    e.Message,
		Reason:     e.Reason,
		Category:   e.Category,
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: s.cfg.App.Name})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	st := s.catalog.Status()
	if !st.Loaded {
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "loading", Catalog: st})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{Status: "ready", Catalog: st})
}

func (s *Server) home(w http.ResponseWriter, _ *http.Request) {
	s.renderHTML(w, http.StatusOK, "home.html", homePage{
		Service:    s.cfg.App.Name,
		Categories: reasons.Categories(),
		APIPrefix:  "/api/v1",
	})
}

// randomReason answers the API selection endpoints. The endpoint itself succeeds, so the
// status is 200 even though the body describes a 404.
func (s *Server) randomReason(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.pick(w, r)
	if !ok {
		return
	}
	metrics.ObserveReason(entry.Category, negotiate.JSON.String())
	writeJSON(w, http.StatusOK, newNotFoundResponse(entry))
}

func (s *Server) notFoundPage(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.pick(w, r)
	if !ok {
		return
	}
	s.writeSelection(w, negotiate.HTML, entry)
}

func (s *Server) listReasons(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.catalog.Load(r.Context())
	if err != nil {
		s.catalogError(w, r, err)
		return
	}
	etag := `"` + catalog.Fingerprint() + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Total: catalog.Len(), Reasons: catalog.Entries()})
}

func (s *Server) reloadReasons(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.catalogError(w, r, err)
		return
	}
	reqID := RequestIDFromContext(r.Context())
	s.logger.Info("catalog reloaded via API",
		zap.Int("entries", catalog.Len()),
		zap.String("request_id", reqID),
	)
	writeJSON(w, http.StatusOK, reloadResponse{
		Status:    "reloaded",
		Total:     catalog.Len(),
		Broadcast: s.broadcastReload(r.Context(), catalog, reqID),
	})
}

// broadcastReload announces the reload to other replicas. Failures are logged, not returned.
func (s *Server) broadcastReload(ctx context.Context, catalog reasons.Catalog, reqID string) bool {
	if s.publisher == nil {
		return false
	}
	st := s.catalog.Status()
	id, err := s.publisher.Publish(ctx, publisher.Event{
		Source:      st.Source,
		Fingerprint: catalog.Fingerprint(),
		Entries:     catalog.Len(),
		RequestID:   reqID,
		At:          st.LoadedAt,
	})
	if err != nil {
		s.logger.Warn("announce reload failed", zap.Error(err), zap.String("request_id", reqID))
		return false
	}
	s.logger.Debug("reload announced", zap.String("message_id", id))
	return true
}

// catchAll turns every unmatched path into a themed 404.
func (s *Server) catchAll(w http.ResponseWriter, r *http.Request) {
	format := negotiate.Negotiate(r.Header.Get("Accept"), r.URL.Path, s.cfg.Server.APIPrefix)
	entry, ok := s.pick(w, r)
	if !ok {
		return
	}
	s.writeSelection(w, format, entry)
}

func (s *Server) writeSelection(w http.ResponseWriter, format negotiate.Format, entry reasons.Entry) {
	metrics.ObserveReason(entry.Category, format.String())
	if format == negotiate.JSON {
		writeJSON(w, http.StatusNotFound, newNotFoundResponse(entry))
		return
	}
	s.renderHTML(w, http.StatusNotFound, "404.html", notFoundPage{
		Service:      s.cfg.App.Name,
		Message:      entry.Message,
		Reason:       entry.Reason,
		Category:     entry.DisplayCategory(),
		VisitorCount: s.selector.VisitorCount(),
	})
}

// pick selects an entry honoring a recognized ?category= filter. On failure it has already
// written the error response.
func (s *Server) pick(w http.ResponseWriter, r *http.Request) (reasons.Entry, bool) {
	entry, err := s.selectEntry(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.catalogError(w, r, err)
		return reasons.Entry{}, false
	}
	return entry, true
}

func (s *Server) selectEntry(ctx context.Context, category string) (reasons.Entry, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return reasons.Entry{}, err
	}
	if reasons.IsCategory(category) {
		return s.selector.RandomByCategory(catalog, category), nil
	}
	return s.selector.Random(catalog), nil
}

func (s *Server) catalogError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("catalog unavailable",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "catalog unavailable")
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
