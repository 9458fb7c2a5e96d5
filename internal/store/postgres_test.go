package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/moment-a/internal/migrations"
)

func setupTestPostgres(t *testing.T) *Postgres {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	p, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	path, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(p.DB, path))
	return p
}

func TestPostgres_SetGetDelete(t *testing.T) {
	p := setupTestPostgres(t)
	ctx := context.Background()

	expected := testStruct{Name: "Alice", Age: 30}
	require.NoError(t, p.Set(ctx, Key("ctx", KeyUsers), expected))

	var actual testStruct
	found, err := p.Get(ctx, Key("ctx", KeyUsers), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)

	updated := testStruct{Name: "Bob", Age: 31}
	require.NoError(t, p.Set(ctx, Key("ctx", KeyUsers), updated))
	found, err = p.Get(ctx, Key("ctx", KeyUsers), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, updated, actual)

	require.NoError(t, p.Delete(ctx, Key("ctx", KeyUsers)))
	found, err = p.Get(ctx, Key("ctx", KeyUsers), &actual)
	require.NoError(t, err)
	assert.False(t, found)
}
