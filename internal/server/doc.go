// Package server provides the HTTP server for the reference uploads service.
//
// The service implements the API verified by apicheck so the suite can be run
// end to end without an external deployment:
//   - GET /ping/
//   - POST /authorize/ (form username, password) issues a bearer token
//   - POST /api/save_data/ (JSON or form payload) stores the MD5 digest of the payload
//
// plus the infrastructure endpoints /health/live, /health/ready and /version.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// middleware is in internal/server/middleware
package server
