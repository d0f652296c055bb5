// Package main hosts the 404-as-a-Service entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes health, readiness, metrics, the JSON selection and listing
//     endpoints, the HTML homepage and 404 page, and a catch-all that turns every unmatched path into a
//     themed 404 negotiated as JSON or HTML.
//   - Catalog: internal/storage.Open resolves catalog.source to a file, GCS, S3, Postgres, or in-memory
//     source. internal/reasons.Cache memoizes the decoded catalog, deduplicates concurrent loads, and bounds
//     each fetch by catalog.load_timeout_seconds. A missing source degrades to a single placeholder entry;
//     a malformed one stops startup.
//   - Invalidation: POST /api/v1/reasons/reload (when admin.api_key is set) and, when pubsub.* is
//     configured, internal/subscriber/pubsub reload the catalog on demand.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured logging;
//     Prometheus metrics are exported via the metrics middleware and /metrics handler.
//
// Quick checklist:
//   - Configure env vars: NOTFOUND_CATALOG_SOURCE (or REASONS_FILE), NOTFOUND_SERVER_PORT (or PORT),
//     NOTFOUND_APP_NAME (or APP_NAME), NOTFOUND_ADMIN_API_KEY, NOTFOUND_PUBSUB_PROJECT_ID and
//     NOTFOUND_PUBSUB_SUBSCRIPTION.
//   - Run locally: go run ./cmd/notfound -config config.yaml (or rely solely on env overrides).
//   - The process reacts to SIGINT/SIGTERM by draining in-flight requests within
//     server.shutdown_timeout_seconds.
package main
