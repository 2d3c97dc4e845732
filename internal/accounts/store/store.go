package store

import (
	"context"
	"errors"

	"github.com/userdock/userdock/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo, sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	// ApplyMigrations brings the backing schema up to date. For the mongo
	// driver this builds the unique indexes; for sqlite it runs the
	// embedded migration files.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the store connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is an exact-match, case-sensitive lookup used
	// during login and the registration pre-check.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user and returns it with the store-assigned
	// id. Uniqueness of username and email is enforced atomically by the
	// store's unique indexes: concurrent creates for the same username
	// never both succeed, the loser observes ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}
