//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test environment setup
// ─────────────────────────────────────────────────────────────────────────────

// startPostgres launches a PostgreSQL 16 container and returns its config.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "pulse_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		DBName:   "pulse_test",
		SSLMode:  "disable",
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Migrations
// ─────────────────────────────────────────────────────────────────────────────

func TestMigrations_UpStatusDown(t *testing.T) {
	cfg := startPostgres(t)
	dsn := postgres.DSN(cfg)

	require.NoError(t, postgres.RunMigrations(dsn, ""))
	require.NoError(t, postgres.RunMigrations(dsn, ""), "second run is a no-op")

	version, dirty, err := postgres.MigrationStatus(dsn, "")
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	require.NoError(t, postgres.RollbackMigration(dsn, "", 1))
	version, _, err = postgres.MigrationStatus(dsn, "")
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}

// ─────────────────────────────────────────────────────────────────────────────
// Record store round trip
// ─────────────────────────────────────────────────────────────────────────────

func TestProjectRepository_ImportAndList(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()
	require.NoError(t, postgres.RunMigrations(postgres.DSN(cfg), ""))

	conn, err := postgres.NewConnection(ctx, cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	require.NoError(t, conn.HealthCheck(ctx))

	repo := repositories.NewProjectRepository(conn.Pool(), logging.NewNopLogger())

	projects := []byte(`[{"id":"p1","name":"Alpha","status":"todo"},{"id":"p2","name":"Beta","status":"done"}]`)
	tasks := []byte(`[
		{"id":"t1","projectId":"p1","assigneeId":"u1"},
		{"id":"t2","projectId":"p1","collaboratorsIds":["u1","u2"]},
		{"id":"t3","projectId":"p2","assigneeId":"u3"}
	]`)
	res, err := repo.Import(ctx, projects, tasks)
	require.NoError(t, err)
	assert.Equal(t, repositories.ImportResult{Projects: 2, Tasks: 3}, res)

	gotProjects, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, gotProjects, 2)
	assert.Equal(t, "p1", gotProjects[0].ID)

	mine, err := repo.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.ListTasks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Re-import replaces documents in place.
	_, err = repo.Import(ctx, []byte(`[{"id":"p1","name":"Alpha v2"}]`), nil)
	require.NoError(t, err)
	gotProjects, err = repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpha v2", gotProjects[0].Name)

	require.NoError(t, repo.DeleteProject(ctx, "p2"))
	all, err = repo.ListTasks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2, fmt.Sprintf("tasks of p2 are gone: %v", all))
}

//Personal.AI order the ending
