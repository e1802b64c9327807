package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"walkrisk/internal/cache"
	"walkrisk/internal/service"
	"walkrisk/internal/transport/rest/handler"
	"walkrisk/internal/transport/rest/middleware"
	"walkrisk/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService          *service.AuthService
	PuzzleService        *service.PuzzleService
	InvestigationService *service.InvestigationService
	HypothesisService    *service.HypothesisService
	HintService          *service.HintService
	StatsService         *service.StatsService
	MentorService        *service.MentorService
	Energy               cache.EnergyCache
	WSHub                *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	puzzleHandler := handler.NewPuzzleHandler(c.PuzzleService, c.InvestigationService, c.HintService, c.HypothesisService)
	playerHandler := handler.NewPlayerHandler(c.StatsService, c.MentorService, c.Energy)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/puzzles", puzzleHandler.List).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/puzzles/{puzzleId}", puzzleHandler.Get).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/puzzles/{puzzleId}/clues/{clueId}/investigate", puzzleHandler.Investigate).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/puzzles/{puzzleId}/hints", puzzleHandler.Hints).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/puzzles/{puzzleId}/draft", puzzleHandler.SaveDraft).Methods("PUT", "OPTIONS")
	playerRoutes.HandleFunc("/puzzles/{puzzleId}/hypothesis", puzzleHandler.SubmitHypothesis).Methods("POST", "OPTIONS")

	playerRoutes.HandleFunc("/players/me/stats", playerHandler.Stats).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/players/me/energy/restore", playerHandler.RestoreEnergy).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/players/me/mentor", playerHandler.SetMentor).Methods("PUT", "OPTIONS")
	playerRoutes.HandleFunc("/mentors", playerHandler.Mentors).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/leaderboard", playerHandler.Leaderboard).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
