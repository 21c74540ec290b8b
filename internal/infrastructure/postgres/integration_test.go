//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
	repo "github.com/oksasatya/go-ddd-social-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
)

var dsn string

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "migrations")
}

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "accounts_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/accounts_test?sslmode=disable", host, port.Port())

	if err := repo.Migrate(dsn, migrationsDir(), helpers.NewDiscardLogger()); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestUserRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pool, err := repo.NewPool(ctx, dsn, 4, 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	db := repo.OpenDB(pool)
	ur := repo.NewUserRepository(db)

	alice := entity.NewUser("alice", "alice@example.com")
	alice.SetPassword("secret")
	require.NoError(t, ur.Create(ctx, alice))

	bob := entity.NewUser("bob", "bob@example.com")
	require.NoError(t, ur.Create(ctx, bob))

	t.Run("duplicate username", func(t *testing.T) {
		dup := entity.NewUser("ALICE", "other@example.com")
		require.ErrorIs(t, ur.Create(ctx, dup), repository.ErrDuplicate)
	})

	t.Run("follow persists", func(t *testing.T) {
		require.NoError(t, alice.Follow(ctx, ur, bob.ID))

		got, err := ur.FindByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		require.True(t, got.IsFollowing(bob.ID))
		require.True(t, got.PasswordIsValid("secret"))
		require.Equal(t, alice.Version, got.Version)
	})

	t.Run("stale copy conflicts", func(t *testing.T) {
		stale, err := ur.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NoError(t, alice.Unfollow(ctx, ur, bob.ID))

		stale.Bio = "late write"
		require.ErrorIs(t, ur.Save(ctx, stale), repository.ErrConflict)

		got, err := ur.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.False(t, got.IsFollowing(bob.ID))
		require.Empty(t, got.Bio)
	})

	t.Run("follow of missing user", func(t *testing.T) {
		require.ErrorIs(t, alice.Follow(ctx, ur, "3e1f0b9c-7a6d-4f1e-9b2c-000000000000"), repository.ErrNotFound)
	})
}
