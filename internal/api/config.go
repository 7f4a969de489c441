package api

import (
	"net/http"
	"time"

	"woodshop/internal/store"
)

// getConfig returns the site configuration singleton. It is public;
// the frontend reads it on every page load.
func (a *API) getConfig(w http.ResponseWriter, r *http.Request) {
	record, err := a.store.GetByID(r.Context(), store.CollectionConfig, store.ConfigSingletonID)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

// updateConfig requires the guard, stamps the update time and always
// targets the singleton row, regardless of any id in the body.
func (a *API) updateConfig(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(w, r) {
		return
	}
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	delete(fields, "id")
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	record, err := a.store.Update(r.Context(), store.CollectionConfig, store.ConfigSingletonID, fields)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}
