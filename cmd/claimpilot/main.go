// Command claimpilot runs the insurance claim assistant API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartinsure/claimpilot/internal/api"
	"github.com/smartinsure/claimpilot/internal/assist"
	"github.com/smartinsure/claimpilot/internal/claims"
	"github.com/smartinsure/claimpilot/internal/config"
	"github.com/smartinsure/claimpilot/internal/database"
	"github.com/smartinsure/claimpilot/internal/llm"
	"github.com/smartinsure/claimpilot/internal/metrics"
)

func main() {
	var (
		configPath     = flag.String("config", "config.yaml", "path to configuration file")
		generateConfig = flag.Bool("generate-config", false, "write a sample configuration file and exit")
	)
	flag.Parse()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM provider")
	}
	if provider == nil {
		log.Warn().Msg("No LLM provider configured, assistant will use scripted replies only")
	} else {
		log.Info().Str("provider", provider.Name()).Msg("LLM provider initialized")
	}

	engine := claims.NewEngine(store, rand.NewSource(time.Now().UnixNano()))
	assistant := assist.NewAssistant(provider)
	estimator := assist.NewEstimator(provider)
	m := metrics.New("claimpilot")

	router := api.NewRouter(cfg, engine, store, assistant, estimator, m)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting claimpilot server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
