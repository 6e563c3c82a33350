package handlers

import (
	"context"
	"net/http"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/obs"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds everything NewRouter mounts
type Router struct {
	Users         *UserHandler
	Relationships *RelationshipHandler
	Milestones    *MilestoneHandler
	Timeline      *TimelineHandler
	Moods         *MoodHandler
	Photos        *PhotoHandler
	WebSocket     *WebSocketHandler
	Tokens        middleware.TokenVerifier
	DB            Pinger
	AllowSignup   bool
}

// NewRouter builds the HTTP routes under /api/v1
func NewRouter(d Router) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(recoverer)
	r.Use(corsMiddleware)
	r.Use(obs.Middleware)

	r.Get("/healthz", healthz(d.DB))

	r.Route("/api/v1", func(r chi.Router) {
		if d.AllowSignup {
			r.Post("/users", wrap(d.Users.CreateUser))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.Tokens))

			r.Get("/users/me", wrap(d.Users.Me))
			r.Patch("/users/me", wrap(d.Users.UpdateMe))

			r.Route("/relationships", func(r chi.Router) {
				r.Get("/", wrap(d.Relationships.List))
				r.Post("/", wrap(d.Relationships.Create))
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", wrap(d.Relationships.Get))
					r.Patch("/", wrap(d.Relationships.Update))
					r.Delete("/", wrap(d.Relationships.Delete))
					r.Get("/settings", wrap(d.Relationships.Settings))
					r.Patch("/settings", wrap(d.Relationships.UpdateSettings))
					r.Get("/milestones", wrap(d.Milestones.List))
					r.Post("/milestones", wrap(d.Milestones.Create))
					r.Get("/timeline", wrap(d.Timeline.List))
					r.Post("/timeline", wrap(d.Timeline.Create))
					r.Post("/photos", wrap(d.Photos.UploadPhoto))
				})
			})

			r.Route("/milestones/{id}", func(r chi.Router) {
				r.Get("/", wrap(d.Milestones.Get))
				r.Patch("/", wrap(d.Milestones.Update))
				r.Delete("/", wrap(d.Milestones.Delete))
			})

			r.Route("/timeline-entries/{id}", func(r chi.Router) {
				r.Get("/", wrap(d.Timeline.Get))
				r.Patch("/", wrap(d.Timeline.Update))
				r.Delete("/", wrap(d.Timeline.Delete))
			})

			r.Route("/mood-entries", func(r chi.Router) {
				r.Get("/", wrap(d.Moods.List))
				r.Post("/", wrap(d.Moods.Create))
				r.Get("/{id}", wrap(d.Moods.Get))
				r.Patch("/{id}", wrap(d.Moods.Update))
				r.Delete("/{id}", wrap(d.Moods.Delete))
			})
		})
	})

	r.Get("/ws", d.WebSocket.HandleWebSocket)

	return r
}

// healthz handles GET /healthz
func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			respondError(w, translate(r, err))
			return
		}
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
