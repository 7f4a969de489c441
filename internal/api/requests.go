package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"woodshop/internal/store"
)

// createRequest is public: anybody can submit a customer request. The
// creation time is stamped here, not by the store.
func (a *API) createRequest(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	fields["created_at"] = time.Now().UTC().Format(time.RFC3339)
	record, err := a.store.Create(r.Context(), store.CollectionRequests, fields)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

// listRequests is an administrative operation and requires the guard.
func (a *API) listRequests(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(w, r) {
		return
	}
	records, err := a.store.List(r.Context(), store.CollectionRequests)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, records)
}

// updateRequestStatus applies a partial update carrying only the
// status field; everything else in the body is ignored.
func (a *API) updateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["request_id"]
	defer r.Body.Close()
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record, err := a.store.Update(r.Context(), store.CollectionRequests, id, store.Fields{"status": body.Status})
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

func (a *API) deleteRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["request_id"]
	if err := a.store.DeleteByID(r.Context(), store.CollectionRequests, id); err != nil {
		a.storeError(w, r, err)
		return
	}
	writeMessage(w, "Request deleted")
}
