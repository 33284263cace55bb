package http

import (
	"net/http"

	"keepsake/internal/auth"
	"keepsake/internal/config"
	"keepsake/internal/http/handler"
	mw "keepsake/internal/http/middleware"
	"keepsake/internal/jobs"
	"keepsake/internal/record"
	"keepsake/internal/upload"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, gdb *gorm.DB, jwtSvc *auth.JWT, store upload.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	validate := validator.New()

	users := &auth.Users{DB: gdb, OwnerOpenID: cfg.OwnerOpenID}
	oauthClient := auth.NewOAuthClient(cfg.OAuthServerURL, cfg.AppID)
	ah := &handler.AuthHandler{Users: users, OAuth: oauthClient, JWT: jwtSvc}

	recordSvc := &record.Service{DB: gdb}
	var jobsRepo *jobs.Repo
	if gdb != nil {
		jobsRepo = &jobs.Repo{DB: gdb}
	}

	memH := &handler.MemoryHandler{Svc: recordSvc, Validate: validate}
	taskH := &handler.TaskHandler{Svc: recordSvc, Validate: validate}
	eventH := &handler.EventHandler{Svc: recordSvc, Jobs: jobsRepo, Validate: validate}
	upH := &handler.UploadHandler{Store: store}

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/me", ah.Me)
		r.Post("/auth/logout", ah.Logout)
		r.Get("/oauth/callback", ah.Callback)

		r.Route("/memories", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSvc))
			r.Get("/", memH.List)
			r.Post("/", memH.Create)
			r.Patch("/{id}", memH.Update)
			r.Delete("/{id}", memH.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSvc))
			r.Get("/", taskH.List)
			r.Post("/", taskH.Create)
			r.Patch("/{id}", taskH.Update)
			r.Delete("/{id}", taskH.Delete)
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSvc))
			r.Get("/", eventH.List)
			r.Post("/", eventH.Create)
			r.Patch("/{id}", eventH.Update)
			r.Delete("/{id}", eventH.Delete)
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSvc))
			r.Post("/", upH.Upload)
			r.Post("/delete", upH.Delete)
		})
	})

	return r
}
