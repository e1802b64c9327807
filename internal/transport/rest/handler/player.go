package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"walkrisk/internal/cache"
	"walkrisk/internal/service"
	"walkrisk/internal/transport/rest/middleware"
)

// PlayerHandler handles player stats, energy and mentor preference
type PlayerHandler struct {
	statsSvc  *service.StatsService
	mentorSvc *service.MentorService
	energy    cache.EnergyCache
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(statsSvc *service.StatsService, mentorSvc *service.MentorService, energy cache.EnergyCache) *PlayerHandler {
	return &PlayerHandler{
		statsSvc:  statsSvc,
		mentorSvc: mentorSvc,
		energy:    energy,
	}
}

// Stats handles GET /v1/players/me/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())

	stats, err := h.statsSvc.GetStats(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	balance, err := h.energy.Balance(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":  stats,
		"level":  stats.Level(),
		"energy": balance,
	})
}

// RestoreEnergy handles POST /v1/players/me/energy/restore
func (h *PlayerHandler) RestoreEnergy(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())

	balance, err := h.energy.Restore(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"energy": balance})
}

// MentorRequest is the request body for setting a mentor preference
type MentorRequest struct {
	MentorID string `json:"mentorId"`
}

// SetMentor handles PUT /v1/players/me/mentor
func (h *PlayerHandler) SetMentor(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())

	var req MentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.mentorSvc.ValidMentor(req.MentorID) {
		writeServiceError(w, service.ErrMentorNotFound)
		return
	}

	if err := h.statsSvc.SetMentor(r.Context(), playerID, req.MentorID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"mentorId": req.MentorID})
}

// Mentors handles GET /v1/mentors
func (h *PlayerHandler) Mentors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"mentors": h.mentorSvc.ListMentors()})
}

// Leaderboard handles GET /v1/leaderboard
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.statsSvc.GetLeaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
