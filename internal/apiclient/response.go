package apiclient

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Response is the outcome of a call to the API
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// RequestID is the X-Request-Id sent with the request
	RequestID string
}

// SaveResult is the body returned by the save endpoint
type SaveResult struct {
	Status string `json:"status"`
	ID     *int64 `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the service says the payload was stored
func (s SaveResult) OK() bool {
	return s.Status == StatusOK
}

type authorizeResult struct {
	Token string `json:"token"`
}

// Token validates the body against the authorize response schema and returns the token
func (r *Response) Token() (string, error) {
	if err := authorizeResponseValidator.Validate(r.Body); err != nil {
		return "", err
	}
	var res authorizeResult
	if err := json.Unmarshal(r.Body, &res); err != nil {
		return "", WrapDecodeError(err, "failed to decode authorize response")
	}
	return res.Token, nil
}

// SaveResult validates the body against the save response schema and decodes it
func (r *Response) SaveResult() (SaveResult, error) {
	var res SaveResult
	if err := saveResponseValidator.Validate(r.Body); err != nil {
		return res, err
	}
	if err := json.Unmarshal(r.Body, &res); err != nil {
		return res, WrapDecodeError(err, "failed to decode save response")
	}
	return res, nil
}

// StringField returns a top-level string field of a JSON object body.
// ok is false when the body is not a JSON object or the field is missing or not a string.
func (r *Response) StringField(name string) (value string, ok bool) {
	var obj map[string]any
	if err := json.Unmarshal(r.Body, &obj); err != nil {
		return "", false
	}
	value, ok = obj[name].(string)
	return value, ok
}

// BodyText returns the body trimmed for use in messages
func (r *Response) BodyText() string {
	const maxLen = 512
	s := strings.TrimSpace(string(r.Body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
