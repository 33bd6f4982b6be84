package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/NaanProphet/sanscript/internal/transliteration"
	"github.com/NaanProphet/sanscript/internal/web/handlers"
	"github.com/NaanProphet/sanscript/internal/web/middleware"
)

type Config struct {
	RateLimit int
	// RateWindow is how long each request counts against RateLimit.
	RateWindow time.Duration
	MaxBatch   int
}

type Router struct {
	tr      *transliteration.Transliterator
	log     *slog.Logger
	cfg     Config
	limiter *middleware.IPRateLimiter
}

func NewRouter(tr *transliteration.Transliterator, log *slog.Logger, cfg Config) *Router {
	return &Router{
		tr:      tr,
		log:     log,
		cfg:     cfg,
		limiter: middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
	}
}

// Close stops the rate limiter's background cleanup.
func (r *Router) Close() {
	r.limiter.Stop()
}

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
	extra   []middleware.Middleware
}

func (r *Router) routes() []route {
	transliterateHandler := handlers.NewTransliterateHandler(r.tr, r.log, r.cfg.MaxBatch)
	schemesHandler := handlers.NewSchemesHandler(r.tr)
	rateLimit := middleware.RateLimit(r.limiter)

	return []route{
		{http.MethodPost, "/api/v1/transliterate", transliterateHandler.Transliterate, []middleware.Middleware{rateLimit}},
		{http.MethodPost, "/api/v1/transliterate/batch", transliterateHandler.Batch, []middleware.Middleware{rateLimit}},
		{http.MethodGet, "/api/v1/schemes", schemesHandler.List, []middleware.Middleware{middleware.CacheControl("public, max-age=300")}},
	}
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	allowed := make(map[string][]string)

	for _, rt := range r.routes() {
		chain := append([]middleware.Middleware{
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
		}, rt.extra...)
		mux.Handle(rt.method+" "+rt.path, middleware.Chain(rt.handler, chain...))
		allowed[rt.path] = append(allowed[rt.path], rt.method)
	}

	return middleware.Chain(mux, middleware.CORS(allowed))
}
