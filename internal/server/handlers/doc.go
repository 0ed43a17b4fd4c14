// Package handlers provides the HTTP handlers of the reference uploads service:
// the uploads API (ping, authorize, save_data) and the infrastructure handlers
// (health, version).
//
// Error bodies share one shape, {"status": "error", "error": "<message>"}, see responses.go.
package handlers
