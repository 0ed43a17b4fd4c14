package handlers

import (
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/uploads-apicheck/internal/auth"
	"github.com/information-sharing-networks/uploads-apicheck/internal/logger"
)

// AuthorizeResponse carries the issued bearer token
type AuthorizeResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// HandleAuthorize godoc
//
//	@Summary		Issue a bearer token
//	@Description	Checks the login and password and returns a token valid for the configured lifetime.
//	@Description	Any credentials other than the configured pair (including empty ones) are rejected with 403.
//	@Tags			Uploads
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string	true	"Login"
//	@Param			password	formData	string	true	"Password"
//	@Success		200			{object}	AuthorizeResponse
//	@Failure		400			{object}	ErrorResponse	"Unparsable form"
//	@Failure		403			{object}	ErrorResponse	"Invalid credentials"
//	@Router			/authorize/ [post]
func HandleAuthorize(tokens *auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "failed to parse form", err)
			return
		}

		username := r.PostForm.Get("username")
		password := r.PostForm.Get("password")

		if err := tokens.CheckCredentials(username, password); err != nil {
			RespondWithError(w, r, http.StatusForbidden, "invalid username or password", err)
			return
		}

		token, expiresAt, err := tokens.Issue(username)
		if err != nil {
			RespondWithError(w, r, http.StatusInternalServerError, "failed to issue token", err)
			return
		}

		logger.ContextWithLogAttrs(r.Context(),
			slog.String("login", username),
			slog.Time("token_expires_at", expiresAt),
		)

		RespondWithJSONPayload(w, http.StatusOK, AuthorizeResponse{Token: token})
	}
}
