package journal

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"mediaconverter/shared/log"
)

const connectTimeout = 10 * time.Second

type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

type Mongo struct {
	client *mongo.Client
	coll   inserter
	logger *zap.Logger
}

func NewMongo(ctx context.Context, uri, database, collection string, logger *zap.Logger) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
		logger: logger,
	}, nil
}

func (m *Mongo) Record(ctx context.Context, e Entry) error {
	logger := log.LoggerWithTrace(ctx, m.logger)

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	if _, err := m.coll.InsertOne(ctx, e); err != nil {
		logger.Error("Error writing conversion journal", zap.String("request_id", e.RequestID), zap.Error(err))
		return err
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
