package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
)

const (
	checkinsCollection    = "checkins"
	eventsCollection      = "calendar_events"
	credentialsCollection = "credentials"

	opTimeout = 10 * time.Second
)

// Store is the MongoDB-backed persistence sink.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	mu        sync.Mutex
	lastStamp map[string]time.Time
}

// Connect opens and pings a MongoDB connection.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	slog.Info("Connecting to MongoDB", "db", dbName)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to connect to MongoDB", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, apperrors.NewPersistenceError("MongoDB is not reachable", err)
	}

	slog.Info("Connected to MongoDB")

	return &Store{
		client:    client,
		db:        client.Database(dbName),
		lastStamp: make(map[string]time.Time),
	}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks store health.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}
