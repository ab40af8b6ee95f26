package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBids struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

// NewMongoBids resolves the bids collection and ensures the unique
// (taskId, userEmail) index that makes the one-bid-per-task guarantee a
// single conditional write instead of a racy check-then-insert.
func NewMongoBids(ctx context.Context, logger zerolog.Logger, db *mongo.Database) (*MongoBids, error) {
	coll := db.Collection(bidCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "taskId", Value: 1},
			{Key: "userEmail", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetName("unique_task_user_bid"),
	})
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create unique bid index")
		return nil, err
	}

	return &MongoBids{
		logger: logger.With().Str("collection", bidCollection).Logger(),
		coll:   coll,
	}, nil
}

func (s *MongoBids) Insert(ctx context.Context, bid Document) (*InsertResult, error) {
	res, err := s.coll.InsertOne(ctx, bid)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBid
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert bid")
		return nil, err
	}
	s.logger.Debug().
		Str("id", insertedIDHex(res.InsertedID)).
		Msg("inserted bid")

	return &InsertResult{
		Acknowledged: true,
		InsertedID:   insertedIDHex(res.InsertedID),
	}, nil
}

func (s *MongoBids) Exists(ctx context.Context, email, taskID string) (bool, error) {
	err := s.coll.FindOne(ctx, bson.M{
		"taskId":    taskID,
		"userEmail": email,
	}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}

		s.logger.Error().
			Err(err).
			Msg("failed to check bid existence")
		return false, err
	}
	return true, nil
}

func (s *MongoBids) CountByUser(ctx context.Context, email string) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"userEmail": email})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count bids")
		return 0, err
	}
	return count, nil
}

func (s *MongoBids) FindByTask(ctx context.Context, taskID string) ([]Document, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find bids by task")
		return nil, err
	}
	return decodeAll(ctx, cursor)
}

func (s *MongoBids) FindByUser(ctx context.Context, email string) ([]Document, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find bids by user")
		return nil, err
	}
	return decodeAll(ctx, cursor)
}
