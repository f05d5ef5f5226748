package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// connectRetry bounds how long startup keeps retrying a backing service.
const connectRetry = 30 * time.Second

func retry(ctx context.Context, op func() error, logger *zap.SugaredLogger, what string) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = connectRetry
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warnf("%s not ready, retrying in %s: %v", what, wait.Round(time.Millisecond), err)
	})
}

func ConnectMongo(ctx context.Context, uri, dbName string, logger *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Errorf("MongoDB connection failed: %v", err)
		return nil, nil, err
	}

	err = retry(ctx, func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pctx, nil)
	}, logger, "MongoDB")
	if err != nil {
		logger.Errorf("MongoDB ping failed: %v", err)
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("MongoDB connected successfully")
	return client.Database(dbName), client, nil
}
