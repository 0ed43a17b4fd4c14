package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
)

// Endpoints of the uploads API
const (
	PingPath      = "/ping/"
	AuthorizePath = "/authorize/"
	SaveDataPath  = "/api/save_data/"
)

// RequestIDHeader carries a per-request id so client and service logs can be correlated
const RequestIDHeader = "X-Request-Id"

// StatusOK is the status value reported by the save endpoint for a stored payload
const StatusOK = "OK"

// Encoding is the content encoding used for a request body
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingForm Encoding = "urlencoded"
)

// ContentType returns the Content-Type header value for the encoding
func (e Encoding) ContentType() string {
	if e == EncodingJSON {
		return "application/json"
	}
	return "application/x-www-form-urlencoded"
}

// Credentials are sent to the authorize endpoint
type Credentials struct {
	Username string
	Password string
}

// BearerToken formats a token for the Authorization header
func BearerToken(token string) string {
	return "Bearer " + token
}

// Client is the request base shared by all test cases
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout sets the timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New returns a client for the service at baseURL (e.g. http://localhost:5000)
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, WrapRequestError(err, "invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, WrapRequestError(fmt.Errorf("%q is not absolute", baseURL), "invalid base URL")
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping calls GET /ping/
func (c *Client) Ping(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, PingPath, "", nil, nil)
}

// Authorize posts the credentials as a URL encoded form to /authorize/
func (c *Client) Authorize(ctx context.Context, creds Credentials) (*Response, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)
	return c.do(ctx, http.MethodPost, AuthorizePath, EncodingForm.ContentType(), strings.NewReader(form.Encode()), nil)
}

// Save submits a payload to /api/save_data/ using the given encoding.
// authorization is sent verbatim as the Authorization header (see BearerToken).
func (c *Client) Save(ctx context.Context, authorization string, enc Encoding, payload string) (*Response, error) {
	body, err := EncodeSaveBody(enc, payload)
	if err != nil {
		return nil, err
	}
	return c.SaveRaw(ctx, authorization, enc, body)
}

// SaveRaw submits body as-is to /api/save_data/ - used for malformed request cases
func (c *Client) SaveRaw(ctx context.Context, authorization string, enc Encoding, body string) (*Response, error) {
	headers := http.Header{}
	if authorization != "" {
		headers.Set("Authorization", authorization)
	}
	return c.do(ctx, http.MethodPost, SaveDataPath, enc.ContentType(), strings.NewReader(body), headers)
}

// EncodeSaveBody builds the save request body for the encoding.
// JSON bodies are produced in canonical (RFC 8785) form.
func EncodeSaveBody(enc Encoding, payload string) (string, error) {
	switch enc {
	case EncodingJSON:
		raw, err := json.Marshal(map[string]string{"payload": payload})
		if err != nil {
			return "", WrapRequestError(err, "failed to marshal payload")
		}
		canonical, err := jcs.Transform(raw)
		if err != nil {
			return "", WrapRequestError(err, "failed to canonicalize payload")
		}
		return string(canonical), nil
	case EncodingForm:
		form := url.Values{}
		form.Set("payload", payload)
		return form.Encode(), nil
	default:
		return "", WrapRequestError(fmt.Errorf("unknown encoding %q", enc), "failed to encode payload")
	}
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, headers http.Header) (*Response, error) {
	target := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, WrapRequestError(err, "failed to build request")
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, WrapConnectivityError(err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapConnectivityError(err, fmt.Sprintf("%s %s: failed to read response body", method, path))
	}

	c.logger.Debug("api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.String("request_id", requestID),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}, nil
}
