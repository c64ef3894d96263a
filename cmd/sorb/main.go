package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/run-bigpig/sorb/internal/config"
	"github.com/run-bigpig/sorb/internal/intake"
	"github.com/run-bigpig/sorb/internal/llm"
	"github.com/run-bigpig/sorb/internal/logger"
	"github.com/run-bigpig/sorb/internal/server"
)

var log = logger.New("Main")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: %v", err)
	}
	logger.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))

	ctx := context.Background()
	factory := llm.NewModelFactory()

	extractLLM, err := factory.CreateModel(ctx, &cfg.ExtractModel)
	if err != nil {
		log.Fatal("create extract model: %v", err)
	}
	clarifyLLM, err := factory.CreateModel(ctx, &cfg.ClarifyModel)
	if err != nil {
		log.Fatal("create clarify model: %v", err)
	}

	pipeline := intake.NewService(extractLLM, clarifyLLM)
	srv := server.New(cfg, pipeline)

	go func() {
		log.Info("listening on %s, extract=%s clarify=%s",
			srv.Addr, extractLLM.Name(), clarifyLLM.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown: %v", err)
	}
}
