package app

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/xihads/snaptasker/internal/config"
	"github.com/xihads/snaptasker/internal/store"
)

var (
	globalMongoClient *mongo.Client

	globalTaskStore        store.TaskStore
	globalBidStore         store.BidStore
	globalApplicationStore store.ApplicationStore
	globalUserStore        store.UserStore
)

func MustConnectMongo() {
	cfg := config.Global().Mongo

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancelConnect()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to mongo")
		panic(err)
	}
	globalMongoClient = client

	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancelPing()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping mongo")
		panic(err)
	}

	db := client.Database(cfg.Database)
	globalTaskStore = store.NewMongoTasks(globalLogger, db)
	globalApplicationStore = store.NewMongoApplications(globalLogger, db)
	globalUserStore = store.NewMongoUsers(globalLogger, db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancelIndex()

	bids, err := store.NewMongoBids(indexCtx, globalLogger, db)
	if err != nil {
		panic(err)
	}
	globalBidStore = bids

	globalLogger.Info().
		Str("database", cfg.Database).
		Msg("connected to mongo")
}

func DisconnectMongo() {
	err := globalMongoClient.Disconnect(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from mongo")
		return
	}
	globalLogger.Info().Msg("disconnected from mongo")
}
