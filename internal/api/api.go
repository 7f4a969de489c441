/*Package api maps the HTTP surface onto store operations.

Every route handler follows the same shape: run the authorization
guard if the operation requires one, invoke the corresponding store
operation with parameters taken verbatim from path and body, and wrap
the outcome in the response envelope. Guard failures are 401, every
store or unexpected failure is a 500; there is no finer-grained status
mapping.
*/
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"woodshop/internal/access"
	"woodshop/internal/logger"
	"woodshop/internal/store"
)

// request bodies beyond this limit are rejected by the transport layer
const maxRequestBody = 1 << 20

// rate limiting policy for the API prefix
const (
	rateLimitWindow   = 15 * time.Minute
	rateLimitRequests = 100
)

// API is the woodshop REST backend.
type API struct {
	store store.Store
	guard access.Guard
}

// Builder is a builder helper for the API.
type Builder struct {
	// Store is the data-store gateway. This is mandatory.
	Store store.Store
	// Guard authorizes the administrative operations. This is mandatory.
	Guard access.Guard
	// Router is a mux router. This is mandatory.
	Router *mux.Router
}

// MustNew registers all routes on the builder's router and returns the
// API. It panics on invalid builder input.
func MustNew(b *Builder) *API {
	if b.Store == nil {
		panic("builder lacks store")
	}
	if b.Guard == nil {
		panic("builder lacks guard")
	}
	if b.Router == nil {
		panic("builder lacks router")
	}
	a := &API{store: b.Store, guard: b.Guard}

	logger.AddRequestID(b.Router)
	b.Router.Use(recoverPanics)
	b.Router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	prefix := b.Router.PathPrefix("/api").Subrouter()
	prefix.Use(limitRequestBody)
	prefix.Use(newRateLimiter(rateLimitRequests, rateLimitWindow).middleware)

	prefix.HandleFunc("/products", a.listProducts).Methods(http.MethodGet)
	prefix.HandleFunc("/products/{product_id}", a.getProduct).Methods(http.MethodGet)
	prefix.HandleFunc("/products", a.createProduct).Methods(http.MethodPost)
	prefix.HandleFunc("/products/{product_id}", a.updateProduct).Methods(http.MethodPut)
	prefix.HandleFunc("/products/{product_id}", a.deleteProduct).Methods(http.MethodDelete)

	prefix.HandleFunc("/woods", a.listWoods).Methods(http.MethodGet)
	prefix.HandleFunc("/woods", a.createWood).Methods(http.MethodPost)
	prefix.HandleFunc("/woods/{wood_id}", a.updateWood).Methods(http.MethodPut)
	prefix.HandleFunc("/woods/{wood_id}", a.deleteWood).Methods(http.MethodDelete)

	prefix.HandleFunc("/requests", a.createRequest).Methods(http.MethodPost)
	prefix.HandleFunc("/requests", a.listRequests).Methods(http.MethodGet)
	prefix.HandleFunc("/requests/{request_id}", a.updateRequestStatus).Methods(http.MethodPatch)
	prefix.HandleFunc("/requests/{request_id}", a.deleteRequest).Methods(http.MethodDelete)

	prefix.HandleFunc("/config", a.getConfig).Methods(http.MethodGet)
	prefix.HandleFunc("/config", a.updateConfig).Methods(http.MethodPut)

	return a
}

// authorized runs the guard against the request's bearer credential.
// On mismatch it short-circuits with a 401 envelope before any store
// access happens.
func (a *API) authorized(w http.ResponseWriter, r *http.Request) bool {
	if a.guard.Authorize(access.BearerCredential(r)) {
		return true
	}
	logger.FromContext(r.Context()).Warningln("unauthorized request for", r.URL.Path)
	writeError(w, http.StatusUnauthorized, "Unauthorized")
	return false
}

// storeError reports a failed store operation. Not-found, conflict and
// connectivity all flatten to the same 500 envelope carrying the
// store's message.
func (a *API) storeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).WithError(err).Errorln("store operation failed")
	writeError(w, http.StatusInternalServerError, err.Error())
}
