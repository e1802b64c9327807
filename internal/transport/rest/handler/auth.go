package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"walkrisk/internal/cache"
	"walkrisk/internal/service"
)

// AuthHandler handles guest login
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// GuestRequest is the request body for guest login
type GuestRequest struct {
	Nickname string `json:"nickname"`
}

// Guest handles POST /v1/auth/guest
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	var req GuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nickname == "" {
		req.Nickname = "anonymous"
	}

	resp, err := h.authSvc.GuestLogin(req.Nickname)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps engine errors onto the API's status codes:
// not-found 404, resource 402, state conflicts 409, validation 422.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient *cache.ErrInsufficientEnergy
	switch {
	case errors.Is(err, service.ErrPuzzleNotFound),
		errors.Is(err, service.ErrClueNotFound),
		errors.Is(err, service.ErrMentorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":          "insufficient energy",
			"energyBalance":  insufficient.Balance,
			"energyRequired": insufficient.Required,
		})
	case errors.Is(err, service.ErrAttemptClosed),
		errors.Is(err, service.ErrPuzzleExpired):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrHypothesisTooShort),
		errors.Is(err, service.ErrInvalidConfidence):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
