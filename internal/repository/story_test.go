package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storyRowColumns = []string{
	"id", "user_id", "title", "story", "visited_location", "image_url", "visited_date", "is_favourite", "created_at",
}

func storyRows(stories ...*models.TravelStory) *pgxmock.Rows {
	rows := pgxmock.NewRows(storyRowColumns)
	for _, s := range stories {
		rows.AddRow(s.ID, s.UserID, s.Title, s.Story, s.VisitedLocation, s.ImageURL, s.VisitedDate, s.IsFavourite, s.CreatedOn)
	}
	return rows
}

func sampleStory(id string, favourite bool) *models.TravelStory {
	return &models.TravelStory{
		ID:              id,
		UserID:          "owner-1",
		Title:           "Trip " + id,
		Story:           "We walked a lot",
		VisitedLocation: "Paris",
		ImageURL:        "http://localhost:3000/uploads/1.png",
		VisitedDate:     time.UnixMilli(1700000000000).UTC(),
		IsFavourite:     favourite,
		CreatedOn:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStoryRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)
	s := sampleStory("s-1", false)

	mock.ExpectExec(`INSERT INTO travel_stories`).
		WithArgs(s.ID, s.UserID, s.Title, s.Story, s.VisitedLocation, s.ImageURL, s.VisitedDate, false, s.CreatedOn).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), s))
}

func TestStoryRepository_ListByOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`WHERE user_id = \$1\s+ORDER BY is_favourite DESC`).
		WithArgs("owner-1").
		WillReturnRows(storyRows(sampleStory("s-1", true), sampleStory("s-2", false)))

	got, err := repo.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s-1", got[0].ID)
	assert.True(t, got[0].IsFavourite)
	assert.Equal(t, "owner-1", got[1].UserID)
}

func TestStoryRepository_ListByOwner_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`FROM travel_stories`).
		WithArgs("owner-1").
		WillReturnRows(storyRows())

	got, err := repo.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStoryRepository_ListByOwner_QueryError(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`FROM travel_stories`).
		WithArgs("owner-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.ListByOwner(context.Background(), "owner-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get stories")
}

func TestStoryRepository_Search_EscapesPattern(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`title ILIKE \$2 OR story ILIKE \$2 OR visited_location ILIKE \$2`).
		WithArgs("owner-1", `%100\%\_off%`).
		WillReturnRows(storyRows(sampleStory("s-1", false)))

	got, err := repo.Search(context.Background(), "owner-1", "100%_off")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestStoryRepository_FilterByVisitedDate(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)
	start := time.UnixMilli(1690000000000).UTC()
	end := time.UnixMilli(1710000000000).UTC()

	mock.ExpectQuery(`visited_date >= \$2 AND visited_date <= \$3`).
		WithArgs("owner-1", start, end).
		WillReturnRows(storyRows(sampleStory("s-1", false)))

	got, err := repo.FilterByVisitedDate(context.Background(), "owner-1", start, end)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestStoryRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)
	s := sampleStory("s-1", true)
	s.Title = "Renamed"

	mock.ExpectQuery(`(?s)UPDATE travel_stories\s+SET title = \$3.*WHERE id = \$1 AND user_id = \$2`).
		WithArgs(s.ID, s.UserID, "Renamed", s.Story, s.VisitedLocation, s.ImageURL, s.VisitedDate).
		WillReturnRows(storyRows(s))

	got, err := repo.Update(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.IsFavourite)
}

func TestStoryRepository_Update_NotOwned(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)
	s := sampleStory("s-1", false)
	s.UserID = "intruder"

	mock.ExpectQuery(`UPDATE travel_stories`).
		WithArgs(s.ID, "intruder", s.Title, s.Story, s.VisitedLocation, s.ImageURL, s.VisitedDate).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), s)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestStoryRepository_SetFavourite(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`SET is_favourite = \$3\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs("s-1", "owner-1", true).
		WillReturnRows(storyRows(sampleStory("s-1", true)))

	got, err := repo.SetFavourite(context.Background(), "owner-1", "s-1", true)
	require.NoError(t, err)
	assert.True(t, got.IsFavourite)
}

func TestStoryRepository_SetFavourite_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`SET is_favourite`).
		WithArgs("s-9", "owner-1", false).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.SetFavourite(context.Background(), "owner-1", "s-9", false)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestStoryRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`DELETE FROM travel_stories\s+WHERE id = \$1 AND user_id = \$2\s+RETURNING`).
		WithArgs("s-1", "owner-1").
		WillReturnRows(storyRows(sampleStory("s-1", false)))

	got, err := repo.Delete(context.Background(), "owner-1", "s-1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/1.png", got.ImageURL)
}

func TestStoryRepository_Delete_Errors(t *testing.T) {
	mock := newMock(t)
	repo := NewStoryRepository(mock)

	mock.ExpectQuery(`DELETE FROM travel_stories`).
		WithArgs("s-1", "owner-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`DELETE FROM travel_stories`).
		WithArgs("s-1", "owner-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.Delete(context.Background(), "owner-2", "s-1")
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Delete(context.Background(), "owner-1", "s-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete story")
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"paris":   "%paris%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, containsPattern(in), in)
	}
}
