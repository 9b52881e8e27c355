package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type ConnectionInfo struct {
	URI string
	DB  string
}

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewConnection dials the store and verifies it is reachable before the
// server starts taking requests. The returned handle is shared by every
// request for the process lifetime; the driver pools connections internally.
func NewConnection(ctx context.Context, info ConnectionInfo) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(info.URI).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Mongo{Client: client, Database: client.Database(info.DB)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.Client != nil {
		return m.Client.Disconnect(ctx)
	}
	return nil
}
