package api_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"woodshop/internal/access"
	"woodshop/internal/api"
	"woodshop/internal/store"
)

const testSecret = "test-secret"

// fakeStore is an in-memory Store. It mirrors the gateway contract:
// store-assigned ids, newest-first listing, merge-updates, and the
// submitted attribute set overlaying the static columns.
type fakeStore struct {
	mutex    sync.Mutex
	records  map[string][]store.Record
	calls    int
	failWith error
	panicMsg string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string][]store.Record{
			// the config singleton always exists
			store.CollectionConfig: {{
				"id":         1,
				"created_at": time.Now().UTC().Format(time.RFC3339),
				"title":      "Woodshop",
			}},
		},
	}
}

func copyRecord(record store.Record) store.Record {
	out := store.Record{}
	for key, value := range record {
		out[key] = value
	}
	return out
}

func (f *fakeStore) begin() error {
	f.calls++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.failWith
}

func (f *fakeStore) List(_ context.Context, collection string) ([]store.Record, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	stored := f.records[collection]
	// newest first
	records := make([]store.Record, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		records = append(records, copyRecord(stored[i]))
	}
	return records, nil
}

func (f *fakeStore) GetByID(_ context.Context, collection, id string) (store.Record, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	for _, record := range f.records[collection] {
		if fmt.Sprint(record["id"]) == id {
			return copyRecord(record), nil
		}
	}
	return nil, store.NotFoundError("no rows in result set")
}

func (f *fakeStore) Create(_ context.Context, collection string, fields store.Fields) (store.Record, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	record := store.Record{
		"id":         uuid.NewString(),
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range fields {
		record[key] = value
	}
	f.records[collection] = append(f.records[collection], record)
	return copyRecord(record), nil
}

func (f *fakeStore) Update(_ context.Context, collection, id string, fields store.Fields) (store.Record, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	for _, record := range f.records[collection] {
		if fmt.Sprint(record["id"]) == id {
			for key, value := range fields {
				record[key] = value
			}
			return copyRecord(record), nil
		}
	}
	return nil, store.NotFoundError("no rows in result set")
}

func (f *fakeStore) DeleteByID(_ context.Context, collection, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if err := f.begin(); err != nil {
		return err
	}
	for i, record := range f.records[collection] {
		if fmt.Sprint(record["id"]) == id {
			f.records[collection] = append(f.records[collection][:i], f.records[collection][i+1:]...)
			return nil
		}
	}
	return store.NotFoundError("no rows in result set")
}

func newTestRouter(f *fakeStore) *mux.Router {
	router := mux.NewRouter()
	api.MustNew(&api.Builder{
		Store:  f,
		Guard:  access.NewSharedSecret(testSecret),
		Router: router,
	})
	return router
}

type envelopeBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, router *mux.Router, method, path string, body interface{}, bearer string) (*httptest.ResponseRecorder, envelopeBody) {
	var reader *bytes.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonData)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	var envelope envelopeBody
	if w.Body.Len() > 0 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func dataObject(t *testing.T, envelope envelopeBody) map[string]interface{} {
	var object map[string]interface{}
	assert.NoError(t, json.Unmarshal(envelope.Data, &object))
	return object
}

func dataList(t *testing.T, envelope envelopeBody) []map[string]interface{} {
	var list []map[string]interface{}
	assert.NoError(t, json.Unmarshal(envelope.Data, &list))
	return list
}
