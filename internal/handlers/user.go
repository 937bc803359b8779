package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"travel-journal-backend/internal/middleware"
	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles account-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Error       bool                  `json:"error"`
	User        models.AccountSummary `json:"user"`
	AccessToken string                `json:"accessToken"`
	Message     string                `json:"message"`
}

// Register handles POST /create-account
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.userService.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}

	log.Info().Str("email", res.User.Email).Msg("Account created")

	respondJSON(w, AuthResponse{
		User:        res.User,
		AccessToken: res.AccessToken,
		Message:     "Registration Successful",
	}, http.StatusCreated)
}

// Login handles POST /login-account
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, "User not found", http.StatusBadRequest)
			return
		}
		respondServiceError(w, err, "User not found")
		return
	}

	respondJSON(w, AuthResponse{
		User:        res.User,
		AccessToken: res.AccessToken,
		Message:     "Login Successful",
	}, http.StatusOK)
}

// GetUser handles GET /get-user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	account, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}

	respondJSON(w, map[string]any{
		"user":    account,
		"message": "",
	}, http.StatusOK)
}
