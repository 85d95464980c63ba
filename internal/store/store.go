// Package store defines the document store every resource collection lives in
// and its gorm and mongodb implementations.
//
// A Document is an opaque JSON payload plus the few columns the store can filter
// and sort on: status, a per-collection sort key and the timestamps. Unique fields
// (user email, newsletter email, ...) are declared as keys and enforced by the
// backend.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey is returned when a unique key is already taken in the collection.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrEmptyCollection is returned when an operation is called without a collection name.
	ErrEmptyCollection = errors.New("collection name cannot be empty")
)

// OrderField is a column documents can be ordered by.
type OrderField int

const (
	// OrderUpdated orders by UpdatedAt.
	OrderUpdated OrderField = iota
	// OrderCreated orders by CreatedAt.
	OrderCreated
	// OrderSortKey orders by SortKey, ties broken by CreatedAt.
	OrderSortKey
)

// Order of a query.
type Order struct {
	Field OrderField
	Desc  bool
}

// Query filters and orders documents of one collection.
type Query struct {
	Status    string // only documents with this status
	NotStatus string // only documents without this status
	Order     Order
	Limit     int // 0 means no limit
}

// Document is one record of a collection.
type Document struct {
	ID         string
	Collection string
	Status     string
	SortKey    string
	Data       []byte   // JSON object
	Keys       []string // unique within the collection
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Mutator changes a document in place during Update.
// Returning an error aborts the update without writing.
type Mutator func(doc *Document) error

// Store is a document store.
type Store interface {
	// List returns the documents of collection matching q, ordered by q.Order.
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	// Count returns the number of documents of collection matching q.
	Count(ctx context.Context, collection string, q Query) (int64, error)
	// First returns the first document matching q or ErrNotFound.
	First(ctx context.Context, collection string, q Query) (Document, error)
	// Get returns the document with id or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// FindByKey returns the document holding the unique key or ErrNotFound.
	FindByKey(ctx context.Context, collection, key string) (Document, error)
	// Create inserts doc, assigning ID and timestamps.
	Create(ctx context.Context, doc *Document) error
	// Update applies fn to the stored document and writes the result in one step.
	// UpdatedAt is refreshed; ID, Collection and CreatedAt can't be changed by fn.
	Update(ctx context.Context, collection, id string, fn Mutator) (Document, error)
	// Delete removes the document with id. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// Key builds a unique key from a field name and value.
func Key(field, value string) string {
	return field + ":" + value
}

// now is the store clock. Every backend keeps milliseconds.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
