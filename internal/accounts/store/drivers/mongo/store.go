package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/userdock/userdock/internal/accounts/store"
)

const (
	defaultDatabase = "userdb"
	connectTimeout  = 10 * time.Second

	usersCollection = "users"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to the document store addressed by dsn. The database
// name is taken from the DSN path when present (mongodb://host/name),
// otherwise defaultDatabase is used.
func NewStore(dsn string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		db:     client.Database(databaseName(dsn)),
	}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the store connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Users() store.Users {
	return &usersRepo{coll: s.db.Collection(usersCollection)}
}

// ApplyMigrations builds the unique indexes the credential store relies on
// for atomic uniqueness enforcement. Creating an index that already exists
// is a no-op server-side, so this is safe to run on every startup.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	_, err := s.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	return err
}

// databaseName extracts the database segment of a mongo connection string.
func databaseName(dsn string) string {
	rest := dsn
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		if name := strings.Trim(rest[i+1:], "/"); name != "" {
			return name
		}
	}
	return defaultDatabase
}
