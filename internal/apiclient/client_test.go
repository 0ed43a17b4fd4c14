package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	auth        string
	requestID   string
	body        string
}

func newCapturingServer(t *testing.T, status int, respBody string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*captured = capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			auth:        r.Header.Get("Authorization"),
			requestID:   r.Header.Get(RequestIDHeader),
			body:        string(b),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:5000/")
	require.Error(t, err)

	c, err := New("http://localhost:5000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestPing(t *testing.T) {
	srv, captured := newCapturingServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL)
	require.NoError(t, err)

	resp, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.MethodGet, captured.method)
	assert.Equal(t, PingPath, captured.path, "trailing slash must be preserved")
	assert.Equal(t, resp.RequestID, captured.requestID)
	assert.NotEmpty(t, resp.RequestID)
}

func TestAuthorize(t *testing.T) {
	srv, captured := newCapturingServer(t, http.StatusOK, `{"token":"abc.def.ghi"}`)
	c, err := New(srv.URL)
	require.NoError(t, err)

	resp, err := c.Authorize(context.Background(), Credentials{Username: "supertest", Password: "superpassword"})
	require.NoError(t, err)

	assert.Equal(t, AuthorizePath, captured.path)
	assert.Equal(t, "application/x-www-form-urlencoded", captured.contentType)
	form, err := url.ParseQuery(captured.body)
	require.NoError(t, err)
	assert.Equal(t, "supertest", form.Get("username"))
	assert.Equal(t, "superpassword", form.Get("password"))

	token, err := resp.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
	assert.Equal(t, "Bearer abc.def.ghi", BearerToken(token))
}

func TestSaveEncodings(t *testing.T) {
	tests := []struct {
		name        string
		enc         Encoding
		payload     string
		wantBody    string
		contentType string
	}{
		{"json", EncodingJSON, "Ab1", `{"payload":"Ab1"}`, "application/json"},
		{"urlencoded", EncodingForm, "Ab1", `payload=Ab1`, "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, captured := newCapturingServer(t, http.StatusOK, `{"status":"OK","id":3}`)
			c, err := New(srv.URL)
			require.NoError(t, err)

			resp, err := c.Save(context.Background(), "Bearer tok", tt.enc, tt.payload)
			require.NoError(t, err)

			assert.Equal(t, SaveDataPath, captured.path)
			assert.Equal(t, tt.contentType, captured.contentType)
			assert.Equal(t, "Bearer tok", captured.auth)
			assert.Equal(t, tt.wantBody, captured.body)

			res, err := resp.SaveResult()
			require.NoError(t, err)
			assert.True(t, res.OK())
			require.NotNil(t, res.ID)
			assert.Equal(t, int64(3), *res.ID)
		})
	}
}

func TestSaveRawSendsBodyVerbatim(t *testing.T) {
	srv, captured := newCapturingServer(t, http.StatusBadRequest, `{"status":"error","error":"payload is required"}`)
	c, err := New(srv.URL)
	require.NoError(t, err)

	resp, err := c.SaveRaw(context.Background(), "Bearer tok", EncodingJSON, `{"payload": ""}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `{"payload": ""}`, captured.body)

	msg, ok := resp.StringField("error")
	assert.True(t, ok)
	assert.Equal(t, "payload is required", msg)
}

func TestEncodeSaveBodyIsCanonical(t *testing.T) {
	body, err := EncodeSaveBody(EncodingJSON, "a<b")
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "a<b", decoded["payload"])
	assert.Equal(t, `{"payload":"a<b"}`, body, "canonical JSON must not HTML-escape")

	_, err = EncodeSaveBody(Encoding("xml"), "a")
	require.Error(t, err)
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base)
	require.NoError(t, err)

	_, err = c.Ping(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrCodeConnectivity, clientErr.Code())
}

func TestResponseSchemaValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode ErrorCode
	}{
		{"ok without id", `{"status":"OK"}`, ErrCodeSchema},
		{"fractional id", `{"status":"OK","id":1.5}`, ErrCodeSchema},
		{"missing status", `{"id":1}`, ErrCodeSchema},
		{"not json", `<html>`, ErrCodeDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: http.StatusOK, Body: []byte(tt.body)}
			_, err := resp.SaveResult()
			require.Error(t, err)

			var clientErr *ClientError
			require.ErrorAs(t, err, &clientErr)
			assert.Equal(t, tt.wantCode, clientErr.Code())
		})
	}

	resp := &Response{Body: []byte(`{"status":"FAIL","error":"db locked"}`)}
	res, err := resp.SaveResult()
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "db locked", res.Error)

	empty := &Response{Body: []byte(`{"token":""}`)}
	_, err = empty.Token()
	require.Error(t, err, "empty token must not pass the schema")
}
