// Package main closes the current week and generates the next one, without going through HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sterrysx/gymai/internal/config"
	"github.com/sterrysx/gymai/internal/db"
	"github.com/sterrysx/gymai/internal/logging"
	"github.com/sterrysx/gymai/internal/ollama"
	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/plans"
	"github.com/sterrysx/gymai/internal/workout/progression"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	strategyName := flag.String("strategy", "", "progression strategy override [deterministic | external_advisory]")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "gymai-weekly-coach",
	})
	defer closeLogs()

	if *strategyName != "" {
		cfg.ProgressionStrategy = *strategyName
	}

	ollamaClient := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Duration(cfg.OllamaTimeoutSec) * time.Second,
	})
	strategy, err := progression.New(progression.Config{
		Strategy:          cfg.ProgressionStrategy,
		FallbackRepTarget: cfg.FallbackRepTarget,
		OnFailure:         cfg.AdvisoryOnFailure,
	}, progression.NewLLMAdvisor(ollamaClient))
	if err != nil {
		log.Fatalf("progression strategy: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("GYMAI_POSTGRES_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	plansService := plans.NewService(plans.ServiceParams{
		Store:                plans.NewRepo(dbPool),
		Strategy:             strategy,
		ArchiveDir:           cfg.DataDir,
		DefaultBenchRounding: cfg.DefaultBenchRounding,
	})

	result, err := plansService.TransitionToNextWeek(ctx)
	if err != nil {
		var incomplete *workout.IncompleteWeekError
		if errors.As(err, &incomplete) {
			log.Errorf("week %d is not finished, missing logs for:", incomplete.Week)
			for _, m := range incomplete.Missing {
				log.Errorf("  - %s", m)
			}
			dbPool.Close()
			closeLogs()
			os.Exit(2)
		}
		log.Fatalf("transition: %s", err)
	}

	log.Infof("--- week %d -> week %d (%s) ---", result.FromWeek, result.ToWeek, result.Source)
	for _, d := range result.Decisions {
		switch d.Action {
		case progression.ActionStatic, progression.ActionCarry:
			continue
		case progression.ActionBenchCycle:
			log.Infof("  [BENCH] cycle -> %d: %v", result.State.BenchCycleWeek, d.After)
		case progression.ActionIncrease, progression.ActionAdvised:
			log.Infof("  [UPGRADE] %s: %v -> %v", d.Exercise, d.Before, d.After)
		default:
			log.Infof("  [%s] %s", d.Action, d.Exercise)
		}
	}
	if result.ArchivePath != "" {
		log.Infof("archived to %s", result.ArchivePath)
	}
	log.Infof("week %d is ready", result.ToWeek)
}
