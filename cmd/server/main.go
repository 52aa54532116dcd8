package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dungeonmaster/dicetower-backend/internal/config"
	"github.com/dungeonmaster/dicetower-backend/internal/detect"
	"github.com/dungeonmaster/dicetower-backend/internal/httpapi"
	"github.com/dungeonmaster/dicetower-backend/internal/hub"
	"github.com/dungeonmaster/dicetower-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	st := store.New()
	h := hub.New(ctx, logger.Named("hub"))

	var detector detect.Detector
	switch cfg.Detector {
	case config.DetectorRemote:
		detector = detect.NewRemote(cfg.DetectURL, cfg.DetectTimeout, logger.Named("detect"))
	case config.DetectorOpenAI:
		detector = detect.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, logger.Named("detect"))
	}

	srv := httpapi.NewServer(st, h, detector, logger.Named("api"))

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Routes(),
		// No Read/Write timeouts: /ws/roll connections are long-lived.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Addr()),
			zap.String("detector", cfg.Detector),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	// Closes every subscriber outbox; their writers end the connections.
	h.Inbox() <- hub.Shutdown{}

	logger.Info("goodbye")
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
