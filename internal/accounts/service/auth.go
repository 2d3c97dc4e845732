package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/userdock/userdock/internal/accounts/domain"
	"github.com/userdock/userdock/internal/accounts/store"
	"github.com/userdock/userdock/pkg/cryptox"
	"github.com/userdock/userdock/pkg/jwtx"
	"github.com/userdock/userdock/pkg/slogx"
)

var (
	// ErrMissingFields reports that a required input field was empty.
	ErrMissingFields = errors.New("missing_fields")

	// ErrUsernameTaken reports a uniqueness conflict on registration. It
	// covers both the username pre-check and any duplicate the store
	// detects at insert time (email collisions, racing registrations).
	ErrUsernameTaken = errors.New("username_taken")

	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
}

// Register validates and persists a new user. On success exactly one record
// exists; every failure path leaves the store untouched.
func (s *AuthService) Register(ctx context.Context, username, password, email, gender string) error {
	if username == "" || password == "" || email == "" || gender == "" {
		return ErrMissingFields
	}

	// Friendlier error for the common case. The unique indexes remain the
	// authoritative check, this lookup is not a reservation.
	_, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("register: lookup username: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}

	_, err = s.Store.Users().CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Gender:       gender,
	})
	if err != nil {
		// Lost a race on username, or the email is taken.
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("register: create user: %w", err)
	}

	return nil
}

// Login verifies credentials and issues a session token. The unknown-user
// and wrong-password paths return the identical error value so the response
// can never act as a username oracle.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	if username == "" || password == "" {
		return domain.User{}, "", ErrMissingFields
	}

	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Only the username reaches the log, never the password.
			log.Debug("login failed: unknown username", "username", username)
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("login: lookup username: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			log.Debug("login failed: password mismatch", "username", username)
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("login: verify password: %w", err)
	}

	claims := jwtx.NewSessionClaims(user.ID, user.Username, s.Issuer, s.tokenTTL(), time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("login: sign token: %w", err)
	}

	return user, token, nil
}

func (s *AuthService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return jwtx.DefaultSessionTTL
}
