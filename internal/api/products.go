package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"woodshop/internal/store"
)

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	records, err := a.store.List(r.Context(), store.CollectionProducts)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, records)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["product_id"]
	record, err := a.store.GetByID(r.Context(), store.CollectionProducts, id)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record, err := a.store.Create(r.Context(), store.CollectionProducts, fields)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["product_id"]
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record, err := a.store.Update(r.Context(), store.CollectionProducts, id, fields)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	writeData(w, record)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["product_id"]
	if err := a.store.DeleteByID(r.Context(), store.CollectionProducts, id); err != nil {
		a.storeError(w, r, err)
		return
	}
	writeMessage(w, "Product deleted")
}
