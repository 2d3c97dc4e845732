package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/userdock/userdock/internal/accounts/domain"
	"github.com/userdock/userdock/pkg/idx"
)

type usersRepo struct {
	db *sql.DB
}

const (
	getUserByID = `
SELECT id, username, password_hash, email, gender, created_at
FROM users
WHERE id = ?`

	getUserByUsername = `
SELECT id, username, password_hash, email, gender, created_at
FROM users
WHERE username = ?`

	insertUser = `
INSERT INTO users (id, username, password_hash, email, gender, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
)

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, getUserByID, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	// Exact match under the default BINARY collation: no case
	// normalisation, "Alice" and "alice" are distinct users.
	return r.scanOne(r.db.QueryRowContext(ctx, getUserByUsername, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = idx.New().String()
	u.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, insertUser,
		u.ID, u.Username, u.PasswordHash, u.Email, u.Gender, u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, mapConflict(err)
	}
	return u, nil
}

func (r *usersRepo) scanOne(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Gender, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
