// Package main runs the workout MCP server over stdio for local MCP clients.
// The same server is mounted on the backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/config"
	"github.com/sterrysx/gymai/internal/db"
	workoutmcp "github.com/sterrysx/gymai/internal/workout/mcp"
	"github.com/sterrysx/gymai/internal/workout/plans"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the MCP stream
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("GYMAI_POSTGRES_PASSWORD"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	plansService := plans.NewService(plans.ServiceParams{
		Store:                plans.NewRepo(dbPool),
		ArchiveDir:           cfg.DataDir,
		DefaultBenchRounding: cfg.DefaultBenchRounding,
	})
	server := workoutmcp.NewServer(workoutmcp.NewPoolSchemaRepo(dbPool), plansService)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
