package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stitchSightAi/internal/api"
)

// New constructs the HTTP server with routes and middleware.
func New(port string, handler api.Handler) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/analysis", func(r chi.Router) {
			r.Post("/", handler.Analyze)
			r.Get("/", handler.GetAnalysis)
		})
		r.Route("/edits", func(r chi.Router) {
			r.Post("/plan", handler.PlanEdit)
			r.Post("/apply", handler.ApplyEdit)
		})
		r.Post("/placement", handler.SuggestPlacement)
		r.Post("/score", handler.ScoreEdit)
		r.Get("/events", handler.StreamEvents)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Println("server ready on", srv.Addr)
	return srv
}
