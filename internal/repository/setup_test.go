package repository

import (
	"context"
	"testing"
	"time"

	"course-booking/internal/config"
	"course-booking/internal/database"
	"course-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the migrated schema and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPool(ctx, config.DatabaseConfig{
		URL:             connStr,
		MaxConnections:  10,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}, logger)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, logger))

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedLessons inserts test lessons into the database, assigning IDs where missing.
func seedLessons(t *testing.T, pool *pgxpool.Pool, lessons []model.Lesson) []model.Lesson {
	ctx := context.Background()

	query := `
		INSERT INTO lessons (id, subject, location, price, spaces, image, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := range lessons {
		if lessons[i].ID == uuid.Nil {
			lessons[i].ID = uuid.New()
		}
		if lessons[i].CreatedAt.IsZero() {
			lessons[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
		}
		l := lessons[i]
		_, err := pool.Exec(ctx, query, l.ID, l.Subject, l.Location, l.Price, l.Spaces, l.Image, l.Description, l.CreatedAt)
		require.NoError(t, err)
	}

	return lessons
}

// lessonSpaces reads the current spaces of a lesson.
func lessonSpaces(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) int {
	var spaces int
	err := pool.QueryRow(context.Background(), `SELECT spaces FROM lessons WHERE id = $1`, id).Scan(&spaces)
	require.NoError(t, err)
	return spaces
}
