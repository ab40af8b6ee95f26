package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUsers struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func NewMongoUsers(logger zerolog.Logger, db *mongo.Database) *MongoUsers {
	return &MongoUsers{
		logger: logger.With().Str("collection", userCollection).Logger(),
		coll:   db.Collection(userCollection),
	}
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to find user")
		return nil, err
	}
	return &user, nil
}

func (s *MongoUsers) SaveCredentials(ctx context.Context, user User) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"email": user.Email},
		bson.M{"$set": bson.M{"passwordHash": user.PasswordHash}},
		options.Update().SetUpsert(true))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to save credentials")
		return err
	}
	s.logger.Debug().
		Str("email", user.Email).
		Msg("saved credentials")
	return nil
}
