package handlers

import "net/http"

// HandlePing godoc
//
//	@Summary		Ping
//	@Description	Liveness probe of the uploads API.
//	@Tags			Uploads
//	@Produce		json
//	@Success		200	{object}	map[string]string	"pong"
//	@Router			/ping/ [get]
func HandlePing(w http.ResponseWriter, r *http.Request) {
	RespondWithJSONPayload(w, http.StatusOK, map[string]string{"status": "pong"})
}
