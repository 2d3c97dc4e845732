package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/userdock/userdock/internal/accounts/store"
	"github.com/userdock/userdock/internal/accounts/store/drivers/sqlite"
	"github.com/userdock/userdock/pkg/cryptox"
	"github.com/userdock/userdock/pkg/jwtx"
)

func newTestService(t *testing.T) (*AuthService, *jwtx.HS256) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	signer := jwtx.NewHS256([]byte("test-signing-secret"))
	return &AuthService{
		Store:    st,
		Signer:   signer,
		Issuer:   "userdock-test",
		TokenTTL: jwtx.DefaultSessionTTL,
	}, signer
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Register(ctx, "alice", "secret1", "a@x.com", "f")
	require.NoError(t, err)

	user, err := svc.Store.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, "f", user.Gender)

	// Never the plaintext, and verifiable with the hashing primitive
	require.NotEqual(t, "secret1", user.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("secret1", user.PasswordHash))
}

func TestRegister_MissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		username string
		password string
		email    string
		gender   string
	}{
		{"missing username", "", "pw", "a@x.com", "f"},
		{"missing password", "alice", "", "a@x.com", "f"},
		{"missing email", "alice", "pw", "", "f"},
		{"missing gender", "alice", "pw", "a@x.com", ""},
		{"all missing", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.username, tt.password, tt.email, tt.gender)
			require.ErrorIs(t, err, ErrMissingFields)
		})
	}

	// No partial writes on any failure path
	_, err := svc.Store.Users().GetUserByUsername(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "alice", "secret1", "a@x.com", "f"))

	// Same username, all other fields different
	err := svc.Register(ctx, "alice", "other", "b@y.com", "f")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "alice", "secret1", "a@x.com", "f"))

	// Different username, same email: the pre-check passes but the store's
	// unique index reports the conflict.
	err := svc.Register(ctx, "bob", "secret2", "a@x.com", "m")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Store.Users().GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, store.ErrNotFound, "failed registration must not persist a record")
}

func TestRegister_UsernameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "alice", "secret1", "a@x.com", "f"))
	require.NoError(t, svc.Register(ctx, "Alice", "secret2", "b@y.com", "f"),
		"lookups are exact-match, no case normalisation")
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	svc, signer := newTestService(t)

	require.NoError(t, svc.Register(ctx, "alice", "secret1", "a@x.com", "f"))

	user, token, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, token)

	// Token validates against the signing secret and carries the username
	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.WithinDuration(t,
		time.Now().UTC().Add(jwtx.DefaultSessionTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestLogin_MissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, _, err := svc.Login(ctx, "", "pw")
	require.ErrorIs(t, err, ErrMissingFields)

	_, _, err = svc.Login(ctx, "alice", "")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.Register(ctx, "alice", "secret1", "a@x.com", "f"))

	_, _, wrongPassword := svc.Login(ctx, "alice", "wrong")
	_, _, unknownUser := svc.Login(ctx, "nobody", "whatever")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)

	// Identical error values: no username oracle
	require.Equal(t, wrongPassword, unknownUser)
}
