package main

import (
	"testing"

	"course-booking/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

func TestFakeLesson(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 2*len(subjects); i++ {
		lesson := fakeLesson(faker, i)

		assert.Equal(t, subjects[i%len(subjects)].name, lesson.Subject)
		assert.Equal(t, subjects[i%len(subjects)].image, lesson.Image)
		assert.NotEmpty(t, lesson.Location)
		assert.NotEmpty(t, lesson.Description)
		assert.GreaterOrEqual(t, lesson.Price, 25.0)
		assert.LessOrEqual(t, lesson.Price, 100.0)
		assert.Equal(t, model.DefaultLessonSpaces, lesson.Spaces)
	}
}

func TestFakeLesson_DeterministicForSeed(t *testing.T) {
	a := fakeLesson(gofakeit.New(7), 0)
	b := fakeLesson(gofakeit.New(7), 0)

	assert.Equal(t, a.Location, b.Location)
	assert.Equal(t, a.Price, b.Price)
	assert.Equal(t, a.Description, b.Description)
	assert.NotEqual(t, a.ID, b.ID)
}
