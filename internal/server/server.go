package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/run-bigpig/sorb/internal/config"
	"github.com/run-bigpig/sorb/internal/logger"
)

var log = logger.New("Server")

// New 组装路由与中间件，返回可启动的 HTTP 服务
func New(cfg *config.Config, pipeline Pipeline) *http.Server {
	handler := NewOrderHandler(pipeline)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)
	r.Use(noCacheMiddleware)
	r.Use(rateLimitMiddleware(limiter))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Post("/orderinitiation/", handler.HandleOrderInitiation)
	r.Get("/healthz", handler.HandleHealthz)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
