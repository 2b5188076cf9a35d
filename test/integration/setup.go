package integration

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"course-booking/internal/asset"
	"course-booking/internal/cache"
	"course-booking/internal/config"
	"course-booking/internal/database"
	"course-booking/internal/events"
	"course-booking/internal/handler"
	"course-booking/internal/metrics"
	"course-booking/internal/model"
	"course-booking/internal/repository"
	"course-booking/internal/router"
	"course-booking/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a migrated PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, config.DatabaseConfig{
		URL:             connStr,
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedLessons inserts a fixed set of lessons and returns them in creation order.
func SeedLessons(t *testing.T, pool *pgxpool.Pool) []model.Lesson {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewLessonRepository(pool, zerolog.Nop())
	now := time.Now().UTC().Truncate(time.Millisecond)

	lessons := []model.Lesson{
		{Subject: "Maths", Location: "Hendon", Price: 100, Spaces: 5, Image: "maths.jpg", Description: "Algebra and geometry"},
		{Subject: "English", Location: "Colindale", Price: 80, Spaces: 5, Image: "english.jpg", Description: "Creative writing"},
		{Subject: "History", Location: "Brent Cross", Price: 95, Spaces: 2, Image: "history.jpg", Description: "Tudors and Stuarts"},
	}

	for i := range lessons {
		lessons[i].ID = uuid.New()
		lessons[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		if err := repo.Create(ctx, &lessons[i]); err != nil {
			t.Fatalf("failed to seed lesson %s: %v", lessons[i].Subject, err)
		}
	}

	return lessons
}

// CleanupDB removes all rows from the test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE orders, lessons"); err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// SetupTestServer wires the full HTTP stack against testDB. Images are
// served from a temporary directory holding maths.jpg.
func SetupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	imagesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "maths.jpg"), []byte("maths-image"), 0o644))

	lessonRepo := repository.NewLessonRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	lessonCache := cache.NewNopLessonCache()
	registry := metrics.NewRegistry()

	lessonService := service.NewLessonService(lessonRepo, lessonCache, logger)
	orderService := service.NewOrderService(orderRepo, lessonRepo, lessonCache, events.NewNopPublisher(), registry, logger)

	return router.New(router.Handlers{
		Lesson: handler.NewLessonHandler(lessonService, "", logger),
		Order:  handler.NewOrderHandler(orderService, logger),
		Search: handler.NewSearchHandler(lessonService, "", logger),
		Image:  handler.NewImageHandler(asset.NewFileStore(imagesDir, logger), config.DefaultSuggestedImages, logger),
		System: handler.NewSystemHandler(time.Now(), logger),
	}, registry, logger)
}
