package repository

import (
	"context"
	"errors"
)

// Document is one record returned by a query, with its store-assigned id.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter is a single field predicate. Op follows Firestore operator
// spelling ("==", "<", "<=", ">", ">="); the template store only ever
// uses "==".
type Filter struct {
	Field string
	Op    string
	Value any
}

// OrderBy names the sort field for a query.
type OrderBy struct {
	Field      string
	Descending bool
}

// ErrNoDocument is returned by GetDocument when nothing exists at the id.
var ErrNoDocument = errors.New("document does not exist")

// ServerTimestamp marks a field to be assigned by the store at write
// time. Adapters translate it to their backend's native mechanism.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

// DocumentStore is the generic gateway to the external document store.
// It exposes whole-document reads and merge-writes only; there is no
// sub-document addressing, which is why saving a template always
// rewrites its full exercises array.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (map[string]any, error)
	QueryDocuments(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Document, error)
	SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error
	AddDocument(ctx context.Context, collection string, fields map[string]any) (string, error)
	DeleteDocument(ctx context.Context, collection, id string) error
}
