package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDocumentStore is an in-process DocumentStore used by tests and
// local development runs. It mimics the store semantics the adapters
// rely on: merge vs replace writes, server-assigned timestamps and
// idempotent deletes.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string]map[string]map[string]any),
	}
}

// collection materializes the named collection. Callers must hold the
// write lock; readers look up s.collections directly so a missing
// collection stays absent.
func (s *MemoryDocumentStore) collection(name string) map[string]map[string]any {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]map[string]any)
		s.collections[name] = coll
	}
	return coll
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	default:
		return v
	}
}

func copyFields(fields map[string]any) map[string]any {
	return copyValue(fields).(map[string]any)
}

func resolveTimestamps(fields map[string]any) map[string]any {
	now := time.Now().UTC()
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func (s *MemoryDocumentStore) GetDocument(_ context.Context, collection, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNoDocument
	}
	return copyFields(doc), nil
}

func (s *MemoryDocumentStore) QueryDocuments(_ context.Context, collection string, filters []Filter, order *OrderBy) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, fields := range s.collections[collection] {
		matched := true
		for _, f := range filters {
			if f.Op != "==" {
				return nil, fmt.Errorf("memory query: unsupported operator %q", f.Op)
			}
			if fields[f.Field] != f.Value {
				matched = false
				break
			}
		}
		if matched {
			docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
		}
	}

	if order != nil {
		sort.SliceStable(docs, func(i, j int) bool {
			a, b := docs[i].Fields[order.Field], docs[j].Fields[order.Field]
			if order.Descending {
				return fieldLess(b, a)
			}
			return fieldLess(a, b)
		})
	}
	return docs, nil
}

func fieldLess(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int:
		if bv, ok := b.(int); ok {
			return av < bv
		}
	}
	return false
}

func (s *MemoryDocumentStore) SetDocument(_ context.Context, collection, id string, fields map[string]any, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	resolved := resolveTimestamps(fields)
	if merge {
		if existing, ok := coll[id]; ok {
			for k, v := range resolved {
				existing[k] = v
			}
			return nil
		}
	}
	coll[id] = resolved
	return nil
}

func (s *MemoryDocumentStore) AddDocument(_ context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.collection(collection)[id] = resolveTimestamps(fields)
	return id, nil
}

func (s *MemoryDocumentStore) DeleteDocument(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}
