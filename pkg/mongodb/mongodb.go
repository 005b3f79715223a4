package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI  string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017" json:"-"`
	Name string `envconfig:"MONGODB_DB" default:"library"`
}

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB configures the client; the driver dials lazily, so this succeeds
// while the server is still unreachable.
func NewMongoDB(ctx context.Context, cfg Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetSocketTimeout(45 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(5)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	return &DB{
		Client:   client,
		Database: client.Database(cfg.Name),
	}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}
