package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ServicesCollection = "services"
	BookingsCollection = "bookings"
)

// Store owns the single MongoDB client for the process lifetime. It is created once in
// main and handed to every component that needs store access.
type Store struct {
	Client   *mongo.Client
	Services *mongo.Collection
	Bookings *mongo.Collection
}

type Options struct {
	URI         string
	Database    string
	MaxPoolSize uint64
}

// Connect dials MongoDB and pings the admin database so a bad URI or unreachable
// cluster is reported before the server starts accepting requests.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(10 * time.Second).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return NewStore(client, opts.Database), nil
}

func NewStore(client *mongo.Client, database string) *Store {
	d := client.Database(database)
	return &Store{
		Client:   client,
		Services: d.Collection(ServicesCollection),
		Bookings: d.Collection(BookingsCollection),
	}
}
