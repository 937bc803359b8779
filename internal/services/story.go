package services

import (
	"context"
	"fmt"
	"time"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StoryStore persists travel stories. Every method except Create is scoped to one owner.
type StoryStore interface {
	Create(ctx context.Context, story *models.TravelStory) error
	ListByOwner(ctx context.Context, userID string) ([]*models.TravelStory, error)
	Search(ctx context.Context, userID, q string) ([]*models.TravelStory, error)
	FilterByVisitedDate(ctx context.Context, userID string, start, end time.Time) ([]*models.TravelStory, error)
	Update(ctx context.Context, story *models.TravelStory) (*models.TravelStory, error)
	SetFavourite(ctx context.Context, userID, storyID string, favourite bool) (*models.TravelStory, error)
	Delete(ctx context.Context, userID, storyID string) (*models.TravelStory, error)
}

// StoryInput carries the caller-supplied fields of a story
type StoryInput struct {
	Title           string
	Story           string
	VisitedLocation string
	ImageURL        string
	VisitedDate     int64 // epoch milliseconds
}

// StoryService handles travel story business logic
type StoryService struct {
	stories   StoryStore
	blobs     storage.Blob
	publicURL string
	now       func() time.Time
}

// NewStoryService creates a new story service
func NewStoryService(stories StoryStore, blobs storage.Blob, publicURL string) *StoryService {
	return &StoryService{
		stories:   stories,
		blobs:     blobs,
		publicURL: publicURL,
		now:       time.Now,
	}
}

// AddStory creates a story owned by userID
func (s *StoryService) AddStory(ctx context.Context, userID string, in StoryInput) (*models.TravelStory, error) {
	if isBlank(in.Title) || isBlank(in.Story) || isBlank(in.VisitedLocation) || isBlank(in.ImageURL) || in.VisitedDate == 0 {
		return nil, fmt.Errorf("all fields are required: %w", models.ErrValidation)
	}
	if !validMillis(in.VisitedDate) {
		return nil, fmt.Errorf("visitedDate is out of range: %w", models.ErrValidation)
	}

	story := &models.TravelStory{
		ID:              uuid.New().String(),
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        in.ImageURL,
		VisitedDate:     fromMillis(in.VisitedDate),
		UserID:          userID,
		IsFavourite:     false,
		CreatedOn:       s.now().UTC(),
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to add story: %w", err)
	}

	return story, nil
}

// ListStories returns all stories of userID, favourites first
func (s *StoryService) ListStories(ctx context.Context, userID string) ([]*models.TravelStory, error) {
	stories, err := s.stories.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// EditStory overwrites every mutable field of an owned story.
// A blank image URL is replaced with the placeholder image.
func (s *StoryService) EditStory(ctx context.Context, userID, storyID string, in StoryInput) (*models.TravelStory, error) {
	if !isStoryID(storyID) {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
	}
	if isBlank(in.Title) || isBlank(in.Story) || isBlank(in.VisitedLocation) || in.VisitedDate == 0 {
		return nil, fmt.Errorf("title, story, visitedLocation and visitedDate are required: %w", models.ErrValidation)
	}
	if !validMillis(in.VisitedDate) {
		return nil, fmt.Errorf("visitedDate is out of range: %w", models.ErrValidation)
	}

	imageURL := in.ImageURL
	if isBlank(imageURL) {
		imageURL = PlaceholderImageURL(s.publicURL)
	}

	updated, err := s.stories.Update(ctx, &models.TravelStory{
		ID:              storyID,
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        imageURL,
		VisitedDate:     fromMillis(in.VisitedDate),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit story: %w", err)
	}
	return updated, nil
}

// DeleteStory removes an owned story and then, best effort, its image
func (s *StoryService) DeleteStory(ctx context.Context, userID, storyID string) error {
	if !isStoryID(storyID) {
		return fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
	}

	deleted, err := s.stories.Delete(ctx, userID, storyID)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	s.removeImage(ctx, deleted)
	return nil
}

// removeImage deletes the blob behind a deleted story; failures are only logged
func (s *StoryService) removeImage(ctx context.Context, story *models.TravelStory) {
	if story.ImageURL == "" || story.ImageURL == PlaceholderImageURL(s.publicURL) {
		return
	}

	key := KeyFromURL(story.ImageURL)
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Warn().
			Err(err).
			Str("story_id", story.ID).
			Str("key", key).
			Msg("Failed to delete story image")
	}
}

// SetFavorite sets the favourite flag of an owned story
func (s *StoryService) SetFavorite(ctx context.Context, userID, storyID string, favourite bool) (*models.TravelStory, error) {
	if !isStoryID(storyID) {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
	}

	updated, err := s.stories.SetFavourite(ctx, userID, storyID, favourite)
	if err != nil {
		return nil, fmt.Errorf("failed to update favourite: %w", err)
	}
	return updated, nil
}

// Search returns stories of userID whose title, story or location contain query
func (s *StoryService) Search(ctx context.Context, userID, query string) ([]*models.TravelStory, error) {
	if isBlank(query) {
		return nil, fmt.Errorf("query is required: %w", models.ErrValidation)
	}

	stories, err := s.stories.Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search stories: %w", err)
	}
	return stories, nil
}

// FilterByDateRange returns stories of userID visited within [start, end], both inclusive
func (s *StoryService) FilterByDateRange(ctx context.Context, userID string, startMillis, endMillis int64) ([]*models.TravelStory, error) {
	if !validMillis(startMillis) || !validMillis(endMillis) {
		return nil, fmt.Errorf("startDate and endDate must fall within years 0-9999: %w", models.ErrValidation)
	}
	if startMillis > endMillis {
		return []*models.TravelStory{}, nil
	}

	stories, err := s.stories.FilterByVisitedDate(ctx, userID, fromMillis(startMillis), fromMillis(endMillis))
	if err != nil {
		return nil, fmt.Errorf("failed to filter stories: %w", err)
	}
	return stories, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// validMillis reports whether ms is an instant with a four-digit year, the range JSON timestamps can carry
func validMillis(ms int64) bool {
	year := fromMillis(ms).Year()
	return year >= 0 && year <= 9999
}

// isStoryID reports whether id is a canonical uuid
func isStoryID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}
