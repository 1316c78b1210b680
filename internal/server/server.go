package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repcycle/internal/schedule"
	"github.com/meltforce/repcycle/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	engine *schedule.Engine
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. identity is the
// middleware that attaches a user to each request (Tailscale in production,
// DevIdentity locally).
func New(db *storage.DB, engine *schedule.Engine, apiKey string, identity func(http.Handler) http.Handler, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		engine: engine,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes(identity)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(identity func(http.Handler) http.Handler) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoint for the offline uploader (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/workouts", s.handleIngestWorkout)
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(identity)

		r.Route("/cycles", func(r chi.Router) {
			r.Post("/", s.handleCreateCycle)
			r.Get("/", s.handleListCycles)
			r.Get("/{id}", s.handleGetCycle)
			r.Post("/{id}/activate", s.handleActivateCycle)
			r.Post("/{id}/complete", s.handleCompleteCycle)
			r.Post("/{id}/abandon", s.handleAbandonCycle)
			r.Post("/{id}/copy", s.handleCopyCycle)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", s.handleGetSchedule)
			r.Get("/next", s.handleNextWorkout)
			r.Get("/{id}", s.handleGetScheduledWorkout)
			r.Post("/{id}/reschedule", s.handleReschedule)
			r.Post("/{id}/skip", s.handleSkip)
			r.Post("/{id}/complete", s.handleCompleteWorkout)
		})

		r.Post("/workouts", s.handleLogWorkout)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)

		r.Get("/records", s.handleListRecords)
		r.Get("/records/{exerciseID}", s.handleGetRecord)
		r.Get("/records/{exerciseID}/history", s.handleRecordHistory)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/suggestions/generate", s.handleGenerateSuggestions)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/exercises/{id}/substitutes", s.handleSubstitutes)
		r.Put("/exercises/{id}/note", s.handleSaveExerciseNote)
		r.Get("/exercises/{id}/note", s.handleGetExerciseNote)
		r.Delete("/exercises/{id}/note", s.handleDeleteExerciseNote)

		r.Route("/shares", func(r chi.Router) {
			r.Post("/", s.handleCreateShare)
			r.Get("/{code}", s.handleGetShare)
			r.Delete("/{code}", s.handleDeleteShare)
			r.Post("/{code}/copy", s.handleCopyShare)
		})

		r.Get("/notifications", s.handleNotifications)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
		r.Get("/me", s.handleMe)
	})
}
