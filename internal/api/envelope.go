package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"woodshop/internal/store"
)

// envelope is the uniform response wrapper. Every handler terminates
// with either a success envelope carrying data or a message, or a
// failure envelope carrying a single error string.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	jsonData, _ := json.Marshal(body)
	w.Write(jsonData)
}

func writeData(w http.ResponseWriter, payload interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: payload})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// readFields decodes the request body into the opaque attribute set
// which is forwarded to the store without further examination.
func readFields(r *http.Request) (store.Fields, error) {
	defer r.Body.Close()
	var fields store.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil { // a literal null body
		fields = store.Fields{}
	}
	return fields, nil
}
