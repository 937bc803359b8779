package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"travel-journal-backend/internal/middleware"
	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const storyNotFound = "Travel story not found"

// StoryHandler handles travel story HTTP requests
type StoryHandler struct {
	storyService *services.StoryService
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(storyService *services.StoryService) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
	}
}

type storyRequest struct {
	Title           string      `json:"title"`
	Story           string      `json:"story"`
	VisitedLocation string      `json:"visitedLocation"`
	ImageURL        string      `json:"imageUrl"`
	VisitedDate     epochMillis `json:"visitedDate"`
}

func (req storyRequest) input() services.StoryInput {
	return services.StoryInput{
		Title:           req.Title,
		Story:           req.Story,
		VisitedLocation: req.VisitedLocation,
		ImageURL:        req.ImageURL,
		VisitedDate:     int64(req.VisitedDate),
	}
}

type favouriteRequest struct {
	IsFavourite *bool `json:"isFavourite"`
}

// StoryResponse wraps a single story
type StoryResponse struct {
	Story   *models.TravelStory `json:"story"`
	Message string              `json:"message"`
}

// StoriesResponse wraps a list of stories
type StoriesResponse struct {
	Stories []*models.TravelStory `json:"stories"`
}

// AddStory handles POST /add-travel-story
func (h *StoryHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	story, err := h.storyService.AddStory(ctx, userID, req.input())
	if err != nil {
		respondServiceError(w, err, storyNotFound)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("story_id", story.ID).
		Msg("Story added")

	respondJSON(w, StoryResponse{Story: story, Message: "Added Successfully"}, http.StatusCreated)
}

// GetAllStories handles GET /get-all-stories
func (h *StoryHandler) GetAllStories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	stories, err := h.storyService.ListStories(ctx, userID)
	if err != nil {
		respondServiceError(w, err, storyNotFound)
		return
	}

	respondJSON(w, StoriesResponse{Stories: stories}, http.StatusOK)
}

// EditStory handles PUT /edit-stories/{id}
func (h *StoryHandler) EditStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	storyID := chi.URLParam(r, "id")

	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	story, err := h.storyService.EditStory(ctx, userID, storyID, req.input())
	if err != nil {
		respondServiceError(w, err, storyNotFound)
		return
	}

	respondJSON(w, StoryResponse{Story: story, Message: "Update Successful"}, http.StatusOK)
}

// DeleteStory handles DELETE /delete-stories/{id}
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	storyID := chi.URLParam(r, "id")

	if err := h.storyService.DeleteStory(ctx, userID, storyID); err != nil {
		respondServiceError(w, err, storyNotFound)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("story_id", storyID).
		Msg("Story deleted")

	respondJSON(w, map[string]string{"message": "Travel story deleted successfully"}, http.StatusOK)
}

// UpdateIsFavourite handles PUT /update-is-favourite/{id}
func (h *StoryHandler) UpdateIsFavourite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	storyID := chi.URLParam(r, "id")

	var req favouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsFavourite == nil {
		respondError(w, "isFavourite must be a boolean", http.StatusBadRequest)
		return
	}

	story, err := h.storyService.SetFavorite(ctx, userID, storyID, *req.IsFavourite)
	if err != nil {
		respondServiceError(w, err, storyNotFound)
		return
	}

	respondJSON(w, StoryResponse{Story: story, Message: "Update Successful"}, http.StatusOK)
}

// Search handles GET /search?query=
func (h *StoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	stories, err := h.storyService.Search(ctx, userID, r.URL.Query().Get("query"))
	if err != nil {
		// A missing query is reported as 404
		if errors.Is(err, models.ErrValidation) {
			respondError(w, "query is required", http.StatusNotFound)
			return
		}
		respondServiceError(w, err, storyNotFound)
		return
	}

	respondJSON(w, StoriesResponse{Stories: stories}, http.StatusOK)
}

// FilterByDate handles GET /travel-stories/filter?startDate=&endDate=
func (h *StoryHandler) FilterByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	query := r.URL.Query()

	startStr, endStr := query.Get("startDate"), query.Get("endDate")
	if startStr == "" || endStr == "" {
		respondError(w, "startDate and endDate are required", http.StatusBadRequest)
		return
	}

	start, err := parseMillis(startStr)
	if err != nil {
		respondError(w, "startDate must be epoch milliseconds", http.StatusBadRequest)
		return
	}
	end, err := parseMillis(endStr)
	if err != nil {
		respondError(w, "endDate must be epoch milliseconds", http.StatusBadRequest)
		return
	}

	stories, err := h.storyService.FilterByDateRange(ctx, userID, start, end)
	if err != nil {
		respondServiceError(w, err, storyNotFound)
		return
	}

	respondJSON(w, StoriesResponse{Stories: stories}, http.StatusOK)
}
