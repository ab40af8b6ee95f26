package store

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoApplications struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func NewMongoApplications(logger zerolog.Logger, db *mongo.Database) *MongoApplications {
	return &MongoApplications{
		logger: logger.With().Str("collection", applicationCollection).Logger(),
		coll:   db.Collection(applicationCollection),
	}
}

func (s *MongoApplications) Insert(ctx context.Context, application Document) (*InsertResult, error) {
	res, err := s.coll.InsertOne(ctx, application)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert application")
		return nil, err
	}
	s.logger.Debug().
		Str("id", insertedIDHex(res.InsertedID)).
		Msg("inserted application")

	return &InsertResult{
		Acknowledged: true,
		InsertedID:   insertedIDHex(res.InsertedID),
	}, nil
}

func (s *MongoApplications) Find(ctx context.Context, applicantEmail, taskID string) ([]Document, error) {
	filter := bson.M{}
	if applicantEmail != "" {
		filter["applicantEmail"] = applicantEmail
	}
	if taskID != "" {
		filter["taskId"] = taskID
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find applications")
		return nil, err
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoApplications) FindByTask(ctx context.Context, taskID string) ([]Document, error) {
	return s.Find(ctx, "", taskID)
}

func (s *MongoApplications) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to delete application")
		return nil, err
	}
	s.logger.Debug().
		Str("id", id).
		Int64("deleted", res.DeletedCount).
		Msg("deleted application")

	return &DeleteResult{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
	}, nil
}
