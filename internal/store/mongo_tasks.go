package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTasks struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func NewMongoTasks(logger zerolog.Logger, db *mongo.Database) *MongoTasks {
	return &MongoTasks{
		logger: logger.With().Str("collection", taskCollection).Logger(),
		coll:   db.Collection(taskCollection),
	}
}

func (s *MongoTasks) Insert(ctx context.Context, task Document) (*InsertResult, error) {
	res, err := s.coll.InsertOne(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("id", insertedIDHex(res.InsertedID)).
		Msg("inserted task")

	return &InsertResult{
		Acknowledged: true,
		InsertedID:   insertedIDHex(res.InsertedID),
	}, nil
}

func (s *MongoTasks) FindByID(ctx context.Context, id string) (Document, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var doc Document
	err = s.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocuments
		}

		s.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to find task")
		return nil, err
	}
	return sanitizeID(doc), nil
}

func (s *MongoTasks) Find(ctx context.Context, email string) ([]Document, error) {
	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find tasks")
		return nil, err
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoTasks) Recent(ctx context.Context, limit int) ([]Document, error) {
	// Deadlines are stored in several historical shapes, so the
	// ordering happens after normalization rather than in the query.
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find tasks")
		return nil, err
	}

	docs, err := decodeAll(ctx, cursor)
	if err != nil {
		return nil, err
	}
	return SortByDeadline(docs, limit), nil
}

func (s *MongoTasks) Update(ctx context.Context, id string, fields Document) (*UpdateResult, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	// The primary key is immutable; a client echoing it back
	// must not end up inside $set.
	delete(fields, "_id")

	res, err := s.coll.UpdateOne(ctx, filter,
		bson.M{"$set": fields},
		options.Update().SetUpsert(true))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Str("id", id).
		Int64("matched", res.MatchedCount).
		Msg("updated task")

	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    insertedIDHex(res.UpsertedID),
	}, nil
}

func (s *MongoTasks) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to delete task")
		return nil, err
	}
	s.logger.Debug().
		Str("id", id).
		Int64("deleted", res.DeletedCount).
		Msg("deleted task")

	return &DeleteResult{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
	}, nil
}
