package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentStore implements DocumentStore on MongoDB. Document ids
// are stored as string _id values so they stay interchangeable with the
// Firestore adapter.
type MongoDocumentStore struct {
	db *mongo.Database
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{db: db}
}

var mongoOps = map[string]string{
	"==": "$eq",
	"<":  "$lt",
	"<=": "$lte",
	">":  "$gt",
	">=": "$gte",
}

// mongoFields resolves ServerTimestamp sentinels; MongoDB has no
// server-assigned timestamp for plain fields, so write time is used.
func mongoFields(fields map[string]any) bson.M {
	now := time.Now().UTC()
	out := make(bson.M, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// normalizeValue maps BSON decode types back to the portable field
// representation (map[string]any, []any, time.Time).
func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalizeValue(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}

func normalizeDoc(raw bson.M) map[string]any {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		fields[k] = normalizeValue(v)
	}
	return fields
}

func (s *MongoDocumentStore) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("mongo get: %w", err)
	}
	return normalizeDoc(raw), nil
}

func (s *MongoDocumentStore) QueryDocuments(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Document, error) {
	filter := bson.M{}
	for _, f := range filters {
		op, ok := mongoOps[f.Op]
		if !ok {
			return nil, fmt.Errorf("mongo query: unsupported operator %q", f.Op)
		}
		filter[f.Field] = bson.M{op: f.Value}
	}

	opts := options.Find()
	if order != nil {
		dir := 1
		if order.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: order.Field, Value: dir}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo query: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo query decode: %w", err)
		}
		id, _ := raw["_id"].(string)
		docs = append(docs, Document{ID: id, Fields: normalizeDoc(raw)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo query: %w", err)
	}
	return docs, nil
}

func (s *MongoDocumentStore) SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	if merge {
		update := bson.M{"$set": mongoFields(fields)}
		_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("mongo set: %w", err)
		}
		return nil
	}

	doc := mongoFields(fields)
	doc["_id"] = id
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set: %w", err)
	}
	return nil
}

func (s *MongoDocumentStore) AddDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := primitive.NewObjectID().Hex()
	doc := mongoFields(fields)
	doc["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("mongo add: %w", err)
	}
	return id, nil
}

func (s *MongoDocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	// DeleteOne on a missing id matches nothing and reports no error.
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}
