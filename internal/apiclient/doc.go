// Package apiclient is the HTTP client for the uploads API under test.
//
// A Client holds the request base shared by every test case: the service base URL, the
// underlying http.Client and the logger. Each call returns the raw Response (status, headers
// and body) so callers can assert on unexpected outcomes as well as expected ones - a 403 is
// a valid result for a negative case, not an error.
//
// Errors are only returned when no HTTP response was obtained (connectivity) or when a body
// that must be decoded does not match the documented shape (decode / schema).
package apiclient
