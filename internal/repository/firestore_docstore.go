package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreDocumentStore implements DocumentStore on Cloud Firestore,
// the backend the mobile clients talk to.
type FirestoreDocumentStore struct {
	client *firestore.Client
}

func NewFirestoreDocumentStore(client *firestore.Client) *FirestoreDocumentStore {
	return &FirestoreDocumentStore{client: client}
}

// firestoreFields swaps the portable ServerTimestamp sentinel for
// Firestore's own.
func firestoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func (s *FirestoreDocumentStore) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("firestore get: %w", err)
	}
	return snap.Data(), nil
}

func (s *FirestoreDocumentStore) QueryDocuments(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	if order != nil {
		dir := firestore.Asc
		if order.Descending {
			dir = firestore.Desc
		}
		q = q.OrderBy(order.Field, dir)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query: %w", err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreDocumentStore) SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, firestoreFields(fields), opts...); err != nil {
		return fmt.Errorf("firestore set: %w", err)
	}
	return nil
}

func (s *FirestoreDocumentStore) AddDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, firestoreFields(fields))
	if err != nil {
		return "", fmt.Errorf("firestore add: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreDocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	// Firestore deletes are idempotent; deleting a missing doc is a no-op.
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete: %w", err)
	}
	return nil
}
