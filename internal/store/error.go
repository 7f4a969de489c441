package store

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Kind classifies a store failure. The HTTP layer flattens all kinds to
// a single 500 response; the taxonomy exists so the classification does
// not have to be re-derived if that ever changes.
type Kind int

// the failure kinds
const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error is a classified store failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFoundError creates a not-found store error.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of a store error, or KindUnknown for any
// other error.
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return KindUnknown
}

// classify wraps a database error into a store *Error. Unique and
// foreign-key violations become conflicts, connection-class failures
// become unavailable, missing rows become not-found.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindNotFound, Message: "no rows in result set"}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		kind := KindUnknown
		switch pqErr.Code.Class() {
		case "23": // integrity constraint violation
			kind = KindConflict
		case "08": // connection exception
			kind = KindUnavailable
		}
		return &Error{Kind: kind, Message: pqErr.Message}
	}
	return &Error{Kind: KindUnknown, Message: err.Error()}
}
