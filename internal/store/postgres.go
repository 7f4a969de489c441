package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"woodshop/internal/csql"
	"woodshop/internal/logger"
)

// table describes how a collection is stored. Every table has a
// created_at timestamp and a properties object holding the client's
// attribute set; products, woods and requests get store-generated uuid
// identities, config keeps a fixed integer identity.
type table struct {
	idColumn string
	uuidKey  bool
}

var tables = map[string]table{
	CollectionProducts: {idColumn: "product_id", uuidKey: true},
	CollectionWoods:    {idColumn: "wood_id", uuidKey: true},
	CollectionRequests: {idColumn: "request_id", uuidKey: true},
	CollectionConfig:   {idColumn: "config_id", uuidKey: false},
}

// Postgres is the Store implementation on a hosted postgres database.
type Postgres struct {
	db *csql.DB
}

// NewPostgres creates the collection tables if they do not exist yet,
// seeds the config singleton row, and returns the gateway.
func NewPostgres(db *csql.DB) (*Postgres, error) {
	rlog := logger.Default()
	for collection, t := range tables {
		rlog.Debugln("create collection:", collection)
		idColumn := t.idColumn + " uuid NOT NULL DEFAULT uuid_generate_v4() PRIMARY KEY"
		if !t.uuidKey {
			idColumn = t.idColumn + " integer NOT NULL PRIMARY KEY"
		}
		createQuery := fmt.Sprintf(`CREATE table IF NOT EXISTS %s."%s" (
%s,
created_at timestamp NOT NULL DEFAULT now(),
properties jsonb NOT NULL DEFAULT '{}'::jsonb
);`, db.Schema, collection, idColumn)
		createQuery += fmt.Sprintf(`CREATE index IF NOT EXISTS %s ON %s."%s"(created_at);`,
			"sort_index_"+collection+"_created_at", db.Schema, collection)
		if _, err := db.Exec(createQuery); err != nil {
			return nil, classify(err)
		}
	}
	// the config singleton always exists
	seedQuery := fmt.Sprintf(`INSERT INTO %s."config" (config_id) VALUES (%s) ON CONFLICT (config_id) DO NOTHING;`,
		db.Schema, ConfigSingletonID)
	if _, err := db.Exec(seedQuery); err != nil {
		return nil, classify(err)
	}
	return &Postgres{db: db}, nil
}

// idParameter converts the caller's textual id into the parameter type
// of the collection's key column.
func (t table) idParameter(id string) (interface{}, error) {
	if !t.uuidKey {
		return id, nil
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "invalid id '" + id + "' for key " + t.idColumn}
	}
	return u, nil
}

// scanRecord reads one row of (id, created_at, properties) and
// assembles the flat record. The properties overlay the static columns,
// so attribute sets carrying their own created_at survive round trips.
func (t table) scanRecord(scan func(...interface{}) error) (Record, error) {
	var createdAt time.Time
	var properties []byte
	var id interface{}
	if t.uuidKey {
		id = new(uuid.UUID)
	} else {
		id = new(int)
	}
	if err := scan(id, &createdAt, &properties); err != nil {
		return nil, err
	}
	record := Record{"created_at": createdAt.UTC().Format(time.RFC3339)}
	if u, ok := id.(*uuid.UUID); ok {
		record["id"] = u.String()
	} else {
		record["id"] = *(id.(*int))
	}
	var object map[string]interface{}
	if err := json.Unmarshal(properties, &object); err != nil {
		return nil, err
	}
	for key, value := range object {
		record[key] = value
	}
	return record, nil
}

// List implements Store. The ordering by creation time descending is a
// fixed policy, not configurable by the caller.
func (p *Postgres) List(ctx context.Context, collection string) ([]Record, error) {
	t, ok := tables[collection]
	if !ok {
		return nil, &Error{Kind: KindUnknown, Message: "unknown collection '" + collection + "'"}
	}
	query := fmt.Sprintf(`SELECT %s, created_at, properties FROM %s."%s" ORDER BY created_at DESC;`,
		t.idColumn, p.db.Schema, collection)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	records := []Record{}
	for rows.Next() {
		record, err := t.scanRecord(rows.Scan)
		if err != nil {
			return nil, classify(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// GetByID implements Store.
func (p *Postgres) GetByID(ctx context.Context, collection, id string) (Record, error) {
	t, ok := tables[collection]
	if !ok {
		return nil, &Error{Kind: KindUnknown, Message: "unknown collection '" + collection + "'"}
	}
	param, err := t.idParameter(id)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s, created_at, properties FROM %s."%s" WHERE %s=$1;`,
		t.idColumn, p.db.Schema, collection, t.idColumn)
	record, err := t.scanRecord(p.db.QueryRowContext(ctx, query, param).Scan)
	if err != nil {
		return nil, classify(err)
	}
	return record, nil
}

// Create implements Store.
func (p *Postgres) Create(ctx context.Context, collection string, fields Fields) (Record, error) {
	t, ok := tables[collection]
	if !ok {
		return nil, &Error{Kind: KindUnknown, Message: "unknown collection '" + collection + "'"}
	}
	properties, err := json.Marshal(fields)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: err.Error()}
	}
	query := fmt.Sprintf(`INSERT INTO %s."%s" (properties) VALUES ($1) RETURNING %s, created_at, properties;`,
		p.db.Schema, collection, t.idColumn)
	record, err := t.scanRecord(p.db.QueryRowContext(ctx, query, properties).Scan)
	if err != nil {
		return nil, classify(err)
	}
	return record, nil
}

// Update implements Store. Provided fields are merged into the stored
// properties; omitted fields keep their value.
func (p *Postgres) Update(ctx context.Context, collection, id string, fields Fields) (Record, error) {
	t, ok := tables[collection]
	if !ok {
		return nil, &Error{Kind: KindUnknown, Message: "unknown collection '" + collection + "'"}
	}
	param, err := t.idParameter(id)
	if err != nil {
		return nil, err
	}
	properties, err := json.Marshal(fields)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: err.Error()}
	}
	query := fmt.Sprintf(`UPDATE %s."%s" SET properties = properties || $2::jsonb WHERE %s=$1 RETURNING %s, created_at, properties;`,
		p.db.Schema, collection, t.idColumn, t.idColumn)
	record, err := t.scanRecord(p.db.QueryRowContext(ctx, query, param, properties).Scan)
	if err != nil {
		return nil, classify(err)
	}
	return record, nil
}

// DeleteByID implements Store.
func (p *Postgres) DeleteByID(ctx context.Context, collection, id string) error {
	t, ok := tables[collection]
	if !ok {
		return &Error{Kind: KindUnknown, Message: "unknown collection '" + collection + "'"}
	}
	param, err := t.idParameter(id)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s."%s" WHERE %s=$1;`, p.db.Schema, collection, t.idColumn)
	result, err := p.db.ExecContext(ctx, query, param)
	if err != nil {
		return classify(err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if count == 0 {
		return classify(sql.ErrNoRows)
	}
	return nil
}
