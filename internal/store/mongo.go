package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	taskCollection        = "task"
	bidCollection         = "bids"
	applicationCollection = "applications"
	userCollection        = "users"
)

func objectIDFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return bson.M{"_id": oid}, nil
}

// sanitizeID rewrites a driver ObjectID primary key as its hex form so
// documents serialize cleanly to JSON.
func sanitizeID(doc Document) Document {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
	return doc
}

func insertedIDHex(v any) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]Document, error) {
	defer func() { _ = cursor.Close(ctx) }()

	// Non-nil so empty result sets serialize as [] rather than null.
	docs := []Document{}
	for cursor.Next(ctx) {
		var doc Document
		err := cursor.Decode(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, sanitizeID(doc))
	}
	return docs, cursor.Err()
}
