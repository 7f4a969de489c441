package api

import (
	"net/http"
	"time"
)

// health answers liveness probes. It never touches the store and is
// not wrapped in the response envelope.
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
