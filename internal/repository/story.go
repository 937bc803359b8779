package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const storyColumns = `id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at`

// StoryRepository handles database operations for travel stories.
// Every statement that touches a single story filters by (id, user_id).
type StoryRepository struct {
	db DBTX
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db DBTX) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create creates a new story
func (r *StoryRepository) Create(ctx context.Context, story *models.TravelStory) error {
	query := `
		INSERT INTO travel_stories (id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		story.ID, story.UserID, story.Title, story.Story, story.VisitedLocation,
		story.ImageURL, story.VisitedDate, story.IsFavourite, story.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

// ListByOwner retrieves all stories of an owner, favourites first
func (r *StoryRepository) ListByOwner(ctx context.Context, userID string) ([]*models.TravelStory, error) {
	query := `SELECT ` + storyColumns + `
		FROM travel_stories
		WHERE user_id = $1
		ORDER BY is_favourite DESC
	`
	return r.queryStories(ctx, query, userID)
}

// Search retrieves the owner's stories whose title, story or location contains q, ignoring case
func (r *StoryRepository) Search(ctx context.Context, userID, q string) ([]*models.TravelStory, error) {
	query := `SELECT ` + storyColumns + `
		FROM travel_stories
		WHERE user_id = $1
		  AND (title ILIKE $2 OR story ILIKE $2 OR visited_location ILIKE $2)
		ORDER BY is_favourite DESC
	`
	return r.queryStories(ctx, query, userID, containsPattern(q))
}

// FilterByVisitedDate retrieves the owner's stories visited within [start, end]
func (r *StoryRepository) FilterByVisitedDate(ctx context.Context, userID string, start, end time.Time) ([]*models.TravelStory, error) {
	query := `SELECT ` + storyColumns + `
		FROM travel_stories
		WHERE user_id = $1
		  AND visited_date >= $2 AND visited_date <= $3
		ORDER BY is_favourite DESC
	`
	return r.queryStories(ctx, query, userID, start, end)
}

// Update replaces the mutable fields of an owned story and returns the stored row
func (r *StoryRepository) Update(ctx context.Context, story *models.TravelStory) (*models.TravelStory, error) {
	query := `
		UPDATE travel_stories
		SET title = $3, story = $4, visited_location = $5, image_url = $6, visited_date = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns
	row := r.db.QueryRow(ctx, query,
		story.ID, story.UserID, story.Title, story.Story, story.VisitedLocation,
		story.ImageURL, story.VisitedDate,
	)
	updated, err := scanStory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("story %s: %w", story.ID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update story: %w", err)
	}
	return updated, nil
}

// SetFavourite sets the favourite flag of an owned story and returns the stored row
func (r *StoryRepository) SetFavourite(ctx context.Context, userID, storyID string, favourite bool) (*models.TravelStory, error) {
	query := `
		UPDATE travel_stories
		SET is_favourite = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns
	updated, err := scanStory(r.db.QueryRow(ctx, query, storyID, userID, favourite))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update story favourite: %w", err)
	}
	return updated, nil
}

// Delete removes an owned story and returns the deleted row
func (r *StoryRepository) Delete(ctx context.Context, userID, storyID string) (*models.TravelStory, error) {
	query := `
		DELETE FROM travel_stories
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns
	deleted, err := scanStory(r.db.QueryRow(ctx, query, storyID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete story: %w", err)
	}
	return deleted, nil
}

func (r *StoryRepository) queryStories(ctx context.Context, query string, args ...any) ([]*models.TravelStory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}
	defer rows.Close()

	stories := make([]*models.TravelStory, 0)
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stories: %w", err)
	}

	return stories, nil
}

func scanStory(row scanner) (*models.TravelStory, error) {
	var story models.TravelStory
	err := row.Scan(
		&story.ID, &story.UserID, &story.Title, &story.Story, &story.VisitedLocation,
		&story.ImageURL, &story.VisitedDate, &story.IsFavourite, &story.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return &story, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns q into an ILIKE pattern matching q as a literal substring
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
