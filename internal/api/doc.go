// Package api hosts the HTTP server, middleware, and handlers that turn missing pages into
// themed 404 responses. Notable routes:
//   - GET /health and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /api/v1/404, /api/v1/404/random and /api/v1/reasons for API clients.
//   - GET / and /404 for browsers.
//   - POST /api/v1/reasons/reload for operators, when an admin API key is configured.
//
// Every other path is answered by the catch-all handler, which negotiates JSON or HTML.
package api
