package accounts_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/userdock/userdock/internal/accounts/domain"
	mongostore "github.com/userdock/userdock/internal/accounts/store/drivers/mongo"
)

/*
 * Common helpers for account service end-to-end tests. These run the real
 * mongo driver against a disposable MongoDB container, so they need a
 * working Docker daemon and are opt-in via the E2E environment variable.
 */

const mongoImage = "mongo:7"

func requireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 to run container-backed tests")
	}
}

// setupMongoStore starts a MongoDB container and returns a connected store
// with its indexes applied. The container is terminated on test cleanup.
func setupMongoStore(t *testing.T) *mongostore.Store {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("mongodb://%s:%s/userdock_e2e", host, port.Port())

	st, err := mongostore.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(ctx))

	return st
}

func e2eUser(username, email string) domain.User {
	return domain.User{
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Email:        email,
		Gender:       "f",
	}
}
