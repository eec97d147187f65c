package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/repaso-app/repaso-backend/internal/api/handlers"
	"github.com/repaso-app/repaso-backend/internal/api/middleware"
	"github.com/repaso-app/repaso-backend/internal/cache"
	"github.com/repaso-app/repaso-backend/internal/config"
	"github.com/repaso-app/repaso-backend/internal/document"
	"github.com/repaso-app/repaso-backend/internal/queue"
	"github.com/repaso-app/repaso-backend/internal/speech"
)

type Router struct {
	mux    *chi.Mux
	db     *pgxpool.Pool
	redis  *redis.Client
	cfg    *config.Config
	engine *speech.Engine
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, engine *speech.Engine) *Router {
	return &Router{
		mux:    chi.NewRouter(),
		db:     db,
		redis:  rdb,
		cfg:    cfg,
		engine: engine,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(20, 40)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	var textCache *cache.Cache
	if rt.redis != nil {
		textCache = cache.NewCache(rt.redis)
	}
	queueClient := queue.NewClient(rt.cfg.Redis)
	docSvc := document.NewService(rt.db, textCache, queueClient)

	// Synthesis misses hit paid upstreams, so speak routes get a tighter
	// bucket than the rest of the API.
	synthLimit := middleware.NewRateLimiter(2, 5).Limit

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		speechH := handlers.NewSpeechHandler(rt.engine, docSvc)
		r.With(synthLimit).Post("/speech", speechH.Speak)

		docH := handlers.NewDocumentHandler(docSvc)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docH.Create)
			r.Get("/", docH.List)
			r.Get("/{id}", docH.Get)
			r.Delete("/{id}", docH.Delete)
			r.With(synthLimit).Post("/{id}/speak", speechH.SpeakDocument)
		})
	})

	return r
}
