package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flight-delay/internal/api"
	"flight-delay/internal/cfg"
	"flight-delay/internal/logging"
	"flight-delay/internal/metrics"
	"flight-delay/internal/ml"
	"flight-delay/internal/storage"

	"github.com/rs/zerolog/log"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	errorLog, err := logging.Setup(logging.Options{
		Level:        c.LogLevel,
		Format:       c.LogFormat,
		ErrorLogPath: c.ErrorLogPath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("logging setup failed")
	}
	defer errorLog.Close()

	m := metrics.New()
	mw := metrics.NewWrapper(m)
	classifier := ml.NewClassifierWithMetrics(mw)
	loadModel(c, classifier)

	server, err := api.NewServer(classifier, api.Options{
		Port:         c.ServerPort,
		CacheSize:    c.CacheSize,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		Metrics:      mw,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("server setup failed")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	waitForShutdown(server, serverErr, c.ShutdownTimeout)
}

// loadModel reads the stored parameters once. Without a stored model the
// server still starts and answers prediction requests with 503.
func loadModel(c cfg.Settings, classifier *ml.Classifier) {
	store, err := storage.OpenReadOnly(c.ModelPath)
	if errors.Is(err, storage.ErrModelNotFound) {
		log.Warn().Str("path", c.ModelPath).Msg("no trained model found, serving untrained")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("path", c.ModelPath).Msg("failed to open model store")
	}
	defer store.Close()

	model, err := store.LoadModel()
	switch {
	case errors.Is(err, storage.ErrModelNotFound):
		log.Warn().Str("path", c.ModelPath).Msg("model store is empty, serving untrained")
		return
	case err != nil:
		log.Fatal().Err(err).Str("path", c.ModelPath).Msg("failed to load model")
	}

	if err := classifier.Restore(model); err != nil {
		log.Fatal().Err(err).Msg("failed to install model")
	}

	log.Info().
		Str("path", c.ModelPath).
		Time("trained_at", model.TrainedAt).
		Int("training_rows", model.TrainingRows).
		Msg("model loaded")
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(server *api.Server, serverErr <-chan error, timeout time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErr:
		if ok && err != nil {
			log.Error().Err(err).Msg("prediction server failed")
		}
	}

	log.Info().Msg("shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
		return
	}
	log.Info().Msg("server stopped")
}
