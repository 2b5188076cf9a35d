package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"course-booking/internal/config"
	"course-booking/internal/database"
	"course-booking/internal/model"
	"course-booking/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// subjects pairs each sample subject with the image shipped for it.
var subjects = []struct {
	name  string
	image string
}{
	{"Maths", "maths.jpg"},
	{"English", "english.jpg"},
	{"History", "history.jpg"},
	{"Science", "science.jpg"},
	{"Programming", "programming.jpg"},
}

func main() {
	count := flag.Int("count", 10, "number of lessons to insert")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks a random one")
	flag.Parse()

	if err := run(*count, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(count int, seed uint64) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return seedLessons(ctx, repository.NewLessonRepository(pool, logger), gofakeit.New(seed), count, logger)
}

// seedLessons inserts count generated lessons, cycling through the sample subjects.
func seedLessons(ctx context.Context, repo repository.LessonRepository, faker *gofakeit.Faker, count int, logger zerolog.Logger) error {
	now := time.Now().UTC()

	for i := 0; i < count; i++ {
		lesson := fakeLesson(faker, i)
		// Millisecond steps keep the listing order equal to insertion order.
		lesson.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)

		if err := repo.Create(ctx, &lesson); err != nil {
			return fmt.Errorf("failed to seed lesson %d: %w", i+1, err)
		}

		logger.Info().
			Str("lesson_id", lesson.ID.String()).
			Str("subject", lesson.Subject).
			Str("location", lesson.Location).
			Msg("lesson seeded")
	}

	logger.Info().Int("count", count).Msg("seeding completed")

	return nil
}

func fakeLesson(faker *gofakeit.Faker, i int) model.Lesson {
	subject := subjects[i%len(subjects)]

	location := faker.City()

	return model.Lesson{
		ID:          uuid.New(),
		Subject:     subject.name,
		Location:    location,
		Price:       float64(faker.IntRange(5, 20) * 5),
		Spaces:      model.DefaultLessonSpaces,
		Image:       subject.image,
		Description: fmt.Sprintf("%s %s classes in %s", faker.Adjective(), strings.ToLower(subject.name), location),
	}
}
