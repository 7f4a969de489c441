/*Package store is the gateway to the hosted relational database.

The backend does not own the shape of its records: clients submit an
arbitrary attribute set which is persisted unexamined, and every record
comes back as a flat object of store identity, creation time and those
attributes. The gateway exposes one round trip per operation, no
batching and no transactions.
*/
package store

import (
	"context"
)

// Fields is the opaque attribute set submitted by a client. It is
// passed through to the store without validation.
type Fields map[string]interface{}

// Record is a single stored record: the store-assigned id and creation
// time, overlaid with the record's attribute set.
type Record map[string]interface{}

// the four resource collections
const (
	CollectionProducts = "products"
	CollectionWoods    = "woods"
	CollectionRequests = "requests"
	CollectionConfig   = "config"
)

// ConfigSingletonID is the fixed identity of the one and only config
// record. All config operations target this row.
const ConfigSingletonID = "1"

// Store provides per-collection select/insert/update/delete against
// the database. Implementations return *Error for store failures.
type Store interface {
	// List returns all records of the collection, newest first. The
	// ordering by creation time descending is a fixed policy.
	List(ctx context.Context, collection string) ([]Record, error)

	// GetByID returns exactly one record, or a not-found error.
	GetByID(ctx context.Context, collection, id string) (Record, error)

	// Create inserts the fields as a new record and returns the
	// created record including its store-assigned identity.
	Create(ctx context.Context, collection string, fields Fields) (Record, error)

	// Update merges the fields into the identified record and returns
	// the updated record. Fields not present in the request are left
	// unchanged.
	Update(ctx context.Context, collection, id string, fields Fields) (Record, error)

	// DeleteByID removes the identified record. Deleting an unknown id
	// is a not-found error.
	DeleteByID(ctx context.Context, collection, id string) error
}
