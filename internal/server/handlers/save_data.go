package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/information-sharing-networks/uploads-apicheck/internal/auth"
	"github.com/information-sharing-networks/uploads-apicheck/internal/logger"
	"github.com/information-sharing-networks/uploads-apicheck/internal/payload"
)

// UploadStore persists the digest of accepted payloads
type UploadStore interface {
	InsertUpload(ctx context.Context, login, digest string) (int64, error)
}

// SaveDataRequest is the JSON form of the save request
type SaveDataRequest struct {
	Payload *string `json:"payload"`
}

// SaveDataResponse is returned for a stored payload
type SaveDataResponse struct {
	Status string `json:"status" example:"OK"`
	ID     int64  `json:"id" example:"42"`
}

var errEmptyBody = errors.New("request body is empty")

// HandleSaveData godoc
//
//	@Summary		Store a payload
//	@Description	Stores the MD5 digest of the payload together with the login of the token holder.
//	@Description
//	@Description	The token is checked before the body: a missing, invalid or expired token is rejected with 403
//	@Description	whatever the body. An empty body, an unparsable body or an empty payload is rejected with 400.
//	@Tags			Uploads
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			Authorization	header		string			true	"Bearer token"
//	@Param			request			body		SaveDataRequest	true	"Payload (or form field payload)"
//	@Success		200				{object}	SaveDataResponse
//	@Failure		400				{object}	ErrorResponse	"Malformed request"
//	@Failure		403				{object}	ErrorResponse	"Missing, invalid or expired token"
//	@Failure		413				{object}	ErrorResponse	"Request too large"
//	@Router			/api/save_data/ [post]
func HandleSaveData(tokens *auth.TokenService, store UploadStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			RespondWithError(w, r, http.StatusForbidden, err.Error(), nil)
			return
		}

		login, err := tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if auth.ErrorCodeOf(err) == auth.ErrCodeExpiredToken {
				msg = "token has expired"
			}
			RespondWithError(w, r, http.StatusForbidden, msg, err)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				RespondWithError(w, r, http.StatusRequestEntityTooLarge, "request body too large", err)
				return
			}
			RespondWithError(w, r, http.StatusBadRequest, "failed to read request body", err)
			return
		}

		p, err := decodePayload(r.Header.Get("Content-Type"), body)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}

		digest := payload.Digest(p)
		id, err := store.InsertUpload(r.Context(), login, digest)
		if err != nil {
			RespondWithError(w, r, http.StatusInternalServerError, "failed to store payload", err)
			return
		}

		logger.ContextWithLogAttrs(r.Context(),
			slog.String("login", login),
			slog.Int64("upload_id", id),
			slog.Int("payload_length", len(p)),
		)

		RespondWithJSONPayload(w, http.StatusOK, SaveDataResponse{Status: "OK", ID: id})
	}
}

// decodePayload extracts a non-empty payload from a JSON or URL encoded body.
// A missing Content-Type is treated as a form.
func decodePayload(contentType string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", errEmptyBody
	}

	mediaType := "application/x-www-form-urlencoded"
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return "", errors.New("invalid Content-Type header")
		}
		mediaType = mt
	}

	var p string
	switch mediaType {
	case "application/json":
		var req SaveDataRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return "", errors.New("request body is not valid JSON")
		}
		if req.Payload != nil {
			p = *req.Payload
		}
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return "", errors.New("request body is not a valid form")
		}
		p = form.Get("payload")
	default:
		return "", errors.New("unsupported Content-Type " + mediaType)
	}

	if p == "" {
		return "", errors.New("payload is required")
	}
	return p, nil
}
