package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"walkrisk/internal/model"
	"walkrisk/internal/service"
	"walkrisk/internal/transport/rest/middleware"
)

// PuzzleHandler handles puzzle listing, investigation and submission
type PuzzleHandler struct {
	puzzleSvc        *service.PuzzleService
	investigationSvc *service.InvestigationService
	hintSvc          *service.HintService
	hypothesisSvc    *service.HypothesisService
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(
	puzzleSvc *service.PuzzleService,
	investigationSvc *service.InvestigationService,
	hintSvc *service.HintService,
	hypothesisSvc *service.HypothesisService,
) *PuzzleHandler {
	return &PuzzleHandler{
		puzzleSvc:        puzzleSvc,
		investigationSvc: investigationSvc,
		hintSvc:          hintSvc,
		hypothesisSvc:    hypothesisSvc,
	}
}

// List handles GET /v1/puzzles
func (h *PuzzleHandler) List(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	q := r.URL.Query()

	filter := model.PuzzleFilter{
		Difficulty: model.Difficulty(q.Get("difficulty")),
		Type:       model.PuzzleType(q.Get("type")),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		writeError(w, http.StatusBadRequest, "unknown difficulty")
		return
	}

	puzzles, total, err := h.puzzleSvc.ListPuzzles(r.Context(), playerID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"puzzles": puzzles,
		"total":   total,
		"hasMore": int64(filter.Offset+len(puzzles)) < total,
	})
}

// Get handles GET /v1/puzzles/{puzzleId}
func (h *PuzzleHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	puzzleID := mux.Vars(r)["puzzleId"]

	details, err := h.puzzleSvc.GetPuzzleDetails(r.Context(), playerID, puzzleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// Investigate handles POST /v1/puzzles/{puzzleId}/clues/{clueId}/investigate
func (h *PuzzleHandler) Investigate(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	vars := mux.Vars(r)

	result, err := h.investigationSvc.RevealClue(r.Context(), playerID, vars["puzzleId"], vars["clueId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Hints handles GET /v1/puzzles/{puzzleId}/hints
func (h *PuzzleHandler) Hints(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	puzzleID := mux.Vars(r)["puzzleId"]

	tiers, err := h.hintSvc.GetHints(r.Context(), playerID, puzzleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"hints": tiers})
}

// DraftRequest is the request body for saving a draft hypothesis
type DraftRequest struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// SaveDraft handles PUT /v1/puzzles/{puzzleId}/draft
func (h *PuzzleHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	puzzleID := mux.Vars(r)["puzzleId"]

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.investigationSvc.SaveDraft(r.Context(), playerID, puzzleID, req.Text, req.Confidence); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// SubmitHypothesis handles POST /v1/puzzles/{puzzleId}/hypothesis
func (h *PuzzleHandler) SubmitHypothesis(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	puzzleID := mux.Vars(r)["puzzleId"]

	var req service.SubmitHypothesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	eval, err := h.hypothesisSvc.SubmitHypothesis(r.Context(), playerID, puzzleID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}
