// Package httpapi serves the question answering endpoints over HTTP.
//
// Routes:
//
//	GET  /         greeting
//	GET  /ask      ?question=...
//	POST /ask      {"question": "..."}
//	GET  /metrics  Prometheus exposition
//
// Matched routes pass through request ID, access log and metrics middleware.
// CORS wraps the whole router.
package httpapi
