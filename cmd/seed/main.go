// Package main seeds week 1 of the workout plan and the initial progression state.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/config"
	"github.com/sterrysx/gymai/internal/db"
	"github.com/sterrysx/gymai/internal/logging"
	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/internal/workout/plans"
	"github.com/sterrysx/gymai/internal/workout/routine"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	routinePath := flag.String("routine", "", "path to a routine YAML file, the built-in routine when empty")
	oneRepMax := flag.Float64("1rm", routine.DefaultOneRepMax, "initial bench one-rep-max")
	dryRun := flag.Bool("dry-run", false, "only print the compiled plan")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	defer closeLogs()

	var r *routine.Routine
	if *routinePath == "" {
		r, err = routine.Default()
	} else {
		r, err = routine.Load(*routinePath)
	}
	if err != nil {
		log.Fatalf("routine: %s", err)
	}

	state := workout.ProgressionState{
		BenchCycleWeek: bench.FirstState,
		BenchOneRepMax: *oneRepMax,
	}
	entries, err := r.Build(state)
	if err != nil {
		log.Fatalf("build routine: %s", err)
	}

	if *dryRun {
		for _, e := range entries {
			log.Infof("day %d #%d %-35s %d x %-7s %v [%s]", e.Day, e.Order, e.Exercise, e.Sets, e.TargetReps, e.TargetWeights, e.Strategy)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
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

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("migrate: %s", err)
	}

	plansService := plans.NewService(plans.ServiceParams{
		Store:                plans.NewRepo(dbPool),
		ArchiveDir:           cfg.DataDir,
		DefaultBenchRounding: cfg.DefaultBenchRounding,
	})
	if err := plansService.SeedInitialWeek(ctx, entries, state); err != nil {
		if errors.Is(err, plans.ErrPlanExists) {
			log.Warnf("nothing to do: %s", err)
			return
		}
		log.Fatalf("seed: %s", err)
	}

	log.Infof("seeded week %d: %d exercises, bench cycle %d, 1RM %g", routine.FirstWeek, len(entries), state.BenchCycleWeek, state.BenchOneRepMax)
}
