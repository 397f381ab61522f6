//go:build !integration

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/crgw/carrier-call-relay/internal/config"
	"bitbucket.org/crgw/carrier-call-relay/internal/logger"
	"bitbucket.org/crgw/carrier-call-relay/internal/relay"
	"bitbucket.org/crgw/carrier-call-relay/internal/tools/redisfactory"
	"bitbucket.org/crgw/carrier-call-relay/internal/upstream"
	"bitbucket.org/crgw/carrier-call-relay/internal/web"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func serverApp(httpServer *http.Server, logger *zerolog.Logger) int {
	shutdown := false
	done := make(chan error, 1)
	stop := make(chan os.Signal, 1)
	go func() {
		logger.
			Info().
			Msg("Server listening on http://" + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		// Wait for stop
		<-stop
		shutdown = true
		logger.Info().Msg("Shutting down server...")
		_ = httpServer.Shutdown(context.Background())
	}()

	// Notify stop channel if SIGINT or SIGTERM is received
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err := <-done
	if err != nil && !shutdown {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

func run() int {
	_ = godotenv.Load(".env")
	log := logger.New(os.Getenv("LOG_LEVEL"))

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error().Err(err).Msg("Missing or invalid configuration")
		return 1
	}

	log = logger.New(cfg.LogLevel)

	// Startup diagnostics, key masked
	log.Info().
		Str("apiUrl", cfg.APIURL).
		Str("apiKey", cfg.MaskedAPIKey()).
		Str("port", cfg.Port).
		Str("format", string(cfg.Format)).
		Msg("Configuration loaded")

	redisFactory, err := redisfactory.New(cfg.HistoryRedisURI)
	if err != nil {
		log.Error().Err(err).Msg("Invalid HISTORY_REDIS_URI")
		return 1
	}
	defer redisFactory.Close()

	client := upstream.New(cfg.APIURL, cfg.APIKey,
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithAPIKeyMask(config.MaskSecret),
	)

	triggerRelay := relay.New(cfg, client, relay.NewHistory(redisFactory.HistoryClient(), cfg.HistoryTTL))

	openapiContent, err := os.ReadFile(cfg.OpenAPILocation)
	if err != nil {
		log.Warn().Err(err).Str("location", cfg.OpenAPILocation).Msg("OpenAPI document not loaded")
	}

	appRouter := web.SetupRouter(log, web.Options{
		OpenapiContent:    openapiContent,
		OwnBodyValidation: []string{relay.TriggerPath},
		StaticDir:         cfg.StaticDir,
		Production:        cfg.Production,
	}, triggerRelay.RegisterRoutes)

	var host string
	if os.Getenv("TEST") == "true" {
		host = "localhost"
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, cfg.Port),
		Handler: appRouter,
	}

	return serverApp(httpServer, log)
}

func main() {
	os.Exit(run())
}
