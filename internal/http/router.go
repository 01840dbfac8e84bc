package http

import (
	"net/http"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/auth"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/config"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/http/handler"
	mw "github.com/KrishIyer6/Heart-Rate-Tracking/internal/http/middleware"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, log *zap.Logger, jwtSvc *auth.JWT) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: db}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	svc := &reading.Service{DB: db}
	rh := &handler.ReadingHandler{Svc: svc}
	rr := &handler.ReadingReadHandler{Svc: svc}

	r.Route("/readings", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", rh.Create)
		r.Get("/", rr.List)

		r.Post("/bulk", rh.CreateBulk)
		r.Get("/export", rr.Export)

		r.Get("/{id}", rr.Get)
		r.Delete("/{id}", rh.Delete)
	})

	an := &handler.AnalyticsHandler{Svc: svc}
	r.Route("/analytics", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/summary", an.Summary)
		r.Get("/trends", an.Trends)
		r.Get("/patterns", an.Patterns)
		r.Get("/goals", an.Goals)
		r.Get("/statistics", an.Statistics)
	})

	return r
}
