package mmongo

import (
	"context"
	"time"

	"github.com/quantora/ledger/pkg/mlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConnection manages the document-store client used for metadata.
type MongoConnection struct {
	ConnectionString string
	Database         string
	MaxPoolSize      uint64
	Logger           mlog.Logger

	client    *mongo.Client
	Connected bool
}

// GetClient returns the mongo client, establishing the connection on
// the first call.
func (mc *MongoConnection) GetClient(ctx context.Context) (*mongo.Client, error) {
	if mc.Connected {
		return mc.client, nil
	}

	opts := options.Client().ApplyURI(mc.ConnectionString)
	if mc.MaxPoolSize > 0 {
		opts = opts.SetMaxPoolSize(mc.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		mc.Logger.Errorf("failed to connect to mongodb: %v", err)

		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		mc.Logger.Errorf("failed to ping mongodb: %v", err)

		return nil, err
	}

	mc.client = client
	mc.Connected = true

	mc.Logger.Infof("Connected to mongodb database %s", mc.Database)

	return mc.client, nil
}

// GetDatabase returns the configured database handle.
func (mc *MongoConnection) GetDatabase(ctx context.Context) (*mongo.Database, error) {
	client, err := mc.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(mc.Database), nil
}
