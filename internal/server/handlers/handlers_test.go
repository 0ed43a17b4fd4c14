package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/uploads-apicheck/internal/auth"
	"github.com/information-sharing-networks/uploads-apicheck/internal/payload"
	"github.com/information-sharing-networks/uploads-apicheck/internal/version"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeStore struct {
	nextID  int64
	uploads map[int64][2]string
	err     error
}

func (f *fakeStore) InsertUpload(_ context.Context, login, digest string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	if f.uploads == nil {
		f.uploads = map[int64][2]string{}
	}
	f.uploads[f.nextID] = [2]string{login, digest}
	return f.nextID, nil
}

func newTokenService(t *testing.T, now func() time.Time) *auth.TokenService {
	t.Helper()
	opts := []auth.Option{}
	if now != nil {
		opts = append(opts, auth.WithNow(now))
	}
	svc, err := auth.NewTokenService("supertest", "superpassword", testSecret, time.Minute, opts...)
	require.NoError(t, err)
	return svc
}

func authorize(t *testing.T, h http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/authorize/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func save(h http.Handler, authorization, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/save_data/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body: %s", rr.Body.String())
	return body
}

func TestHandleAuthorize(t *testing.T) {
	h := HandleAuthorize(newTokenService(t, nil))

	t.Run("valid credentials", func(t *testing.T) {
		rr := authorize(t, h, "supertest", "superpassword")
		require.Equal(t, http.StatusOK, rr.Code)

		var body AuthorizeResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Token)
	})

	for _, tc := range [][2]string{
		{"testsuper", "passwordsuper"},
		{"supertest", "passwordsuper"},
		{"testsuper", "superpassword"},
		{"", ""},
	} {
		t.Run("rejects "+tc[0]+":"+tc[1], func(t *testing.T) {
			rr := authorize(t, h, tc[0], tc[1])
			assert.Equal(t, http.StatusForbidden, rr.Code)

			body := decodeError(t, rr)
			assert.Equal(t, StatusError, body.Status)
			assert.NotContains(t, rr.Body.String(), `"token"`)
		})
	}
}

func TestHandleSaveData(t *testing.T) {
	tokens := newTokenService(t, nil)
	token, _, err := tokens.Issue("supertest")
	require.NoError(t, err)
	bearer := "Bearer " + token

	tests := []struct {
		name        string
		auth        string
		contentType string
		body        string
		wantCode    int
		wantPayload string
	}{
		{"json payload", bearer, "application/json", `{"payload":"abc"}`, http.StatusOK, "abc"},
		{"json with charset", bearer, "application/json; charset=utf-8", `{"payload":"xyz"}`, http.StatusOK, "xyz"},
		{"form payload", bearer, "application/x-www-form-urlencoded", "payload=Q1w2", http.StatusOK, "Q1w2"},
		{"form without content type", bearer, "", "payload=Z", http.StatusOK, "Z"},
		{"empty json body", bearer, "application/json", "", http.StatusBadRequest, ""},
		{"empty json payload", bearer, "application/json", `{"payload": ""}`, http.StatusBadRequest, ""},
		{"missing json payload", bearer, "application/json", `{}`, http.StatusBadRequest, ""},
		{"invalid json", bearer, "application/json", `{"payload":`, http.StatusBadRequest, ""},
		{"non-string json payload", bearer, "application/json", `{"payload": 5}`, http.StatusBadRequest, ""},
		{"empty form body", bearer, "application/x-www-form-urlencoded", "", http.StatusBadRequest, ""},
		{"empty form payload", bearer, "application/x-www-form-urlencoded", "payload=", http.StatusBadRequest, ""},
		{"unsupported content type", bearer, "text/plain", "payload=a", http.StatusBadRequest, ""},
		{"missing token", "", "application/json", `{"payload":"abc"}`, http.StatusForbidden, ""},
		{"garbage token", "Bearer nope", "application/json", `{"payload":"abc"}`, http.StatusForbidden, ""},
		{"token checked before body", "Bearer nope", "application/json", "", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			rr := save(HandleSaveData(tokens, store), tt.auth, tt.contentType, tt.body)
			require.Equal(t, tt.wantCode, rr.Code, "body: %s", rr.Body.String())

			if tt.wantCode != http.StatusOK {
				assert.Empty(t, store.uploads, "rejected request must not be stored")
				assert.NotEmpty(t, decodeError(t, rr).Error)
				return
			}

			var body SaveDataResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "OK", body.Status)
			require.Contains(t, store.uploads, body.ID)
			assert.Equal(t, "supertest", store.uploads[body.ID][0])
			assert.Equal(t, payload.Digest(tt.wantPayload), store.uploads[body.ID][1])
		})
	}
}

func TestHandleSaveData_ExpiredToken(t *testing.T) {
	now := time.Now()
	tokens := newTokenService(t, func() time.Time { return now })
	token, _, err := tokens.Issue("supertest")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	store := &fakeStore{}
	rr := save(HandleSaveData(tokens, store), "Bearer "+token, "application/x-www-form-urlencoded", "payload=abcde")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "token has expired", decodeError(t, rr).Error)
	assert.Empty(t, store.uploads)
}

func TestHandleSaveData_StoreError(t *testing.T) {
	tokens := newTokenService(t, nil)
	token, _, err := tokens.Issue("supertest")
	require.NoError(t, err)

	store := &fakeStore{err: errors.New("disk full")}
	rr := save(HandleSaveData(tokens, store), "Bearer "+token, "application/json", `{"payload":"abc"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "failed to store payload", decodeError(t, rr).Error)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHandleReadiness(t *testing.T) {
	for name, tc := range map[string]struct {
		err  error
		want int
	}{
		"ready":     {nil, http.StatusOK},
		"not ready": {errors.New("gone"), http.StatusServiceUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			HandleReadiness(fakePinger{tc.err})(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestHandleVersion(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleVersion(version.Info{Version: "v1.2.3", BuildDate: "today", GitCommit: "abc"})(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	var body VersionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "v1.2.3", body.Version)
	assert.Equal(t, "uploads-server", body.Service)
}
