package mongodb

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	BooksCollection   = "books"
	AuthorsCollection = "authors"
)

// MongoDB giữ client + database handle cho document store driver
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect mở client và verify bằng ping primary
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*MongoDB, error) {
	log.Println("[MONGO] Connecting to MongoDB...")

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	log.Println("[MONGO] Connected successfully")
	return &MongoDB{
		Client:   client,
		Database: client.Database(database),
	}, nil
}

// EnsureIndexes tạo indexes cho catalog. ISBN index dùng collation strength 2
// (case-insensitive) nhưng KHÔNG unique.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	caseInsensitive := &options.Collation{Locale: "en", Strength: 2}

	_, err := m.Database.Collection(BooksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetCollation(caseInsensitive)},
	})
	if err != nil {
		return fmt.Errorf("failed to create book indexes: %w", err)
	}

	_, err = m.Database.Collection(AuthorsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "family_name", Value: 1}, {Key: "first_name", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create author indexes: %w", err)
	}

	log.Println("[MONGO] Indexes ensured")
	return nil
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
