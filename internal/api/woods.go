package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"woodshop/internal/store"
)

// woods are the wood-species catalog; unlike products there is no
// single-get route, the frontend always fetches the whole list.

func (a *API) listWoods(w http.ResponseWriter, r *http.Request) {
	records, err := a.store.List(r.Context(), store.CollectionWoods)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, records)
}

func (a *API) createWood(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record, err := a.store.Create(r.Context(), store.CollectionWoods, fields)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

func (a *API) updateWood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["wood_id"]
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record, err := a.store.Update(r.Context(), store.CollectionWoods, id, fields)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

func (a *API) deleteWood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["wood_id"]
	if err := a.store.DeleteByID(r.Context(), store.CollectionWoods, id); err != nil {
		a.storeError(w, r, err)
		return
	}
	writeMessage(w, "Wood deleted")
}
