// Package main is the entry point for the turnos API server.
// It wires together configuration, the database connection, the schema
// migrations, and the HTTP router.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/lfernandez/turnos-api/internal/data"
	"github.com/lfernandez/turnos-api/internal/database"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// appVersion is the current version of the API, shown in logs and by the
// healthcheck endpoint.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup via command-line flags.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on (default 4000)
	environment string // Runtime environment: development, staging, or production
	db          struct {
		dsn string // PostgreSQL Data Source Name (connection string)
	}
	limiter struct {
		rps     float64 // Sustained requests per second allowed per client IP
		burst   int     // Burst capacity per client IP
		enabled bool    // Whether the rate limiter is active at all
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config   serverConfig // Server configuration loaded from flags
	logger   *slog.Logger // Structured logger that writes to stdout
	models   data.Models  // Database model layer for all tables
	metrics  *metricas    // Prometheus collectors for request and booking metrics
	registry *prometheus.Registry
}

// main is the application entry point.
// It parses flags, opens the database, runs migrations, wires up
// dependencies, and starts the HTTP server.
func main() {
	// A local .env file can pre-populate the environment in development;
	// its absence is not an error.
	_ = godotenv.Load()

	var settings serverConfig

	// Register command-line flags so operators can override defaults at runtime.
	// The DSN default comes from the environment so it never has to appear on
	// a command line.
	flag.IntVar(&settings.port, "port", 4000, "Server port")
	flag.StringVar(&settings.environment, "env", "development", "Environment(development|staging|production)")
	flag.StringVar(&settings.db.dsn, "db-dsn", os.Getenv("TURNOS_DB_DSN"), "PostgreSQL DSN")
	flag.Float64Var(&settings.limiter.rps, "limiter-rps", 2, "Rate limiter requests per second per IP")
	flag.IntVar(&settings.limiter.burst, "limiter-burst", 4, "Rate limiter burst per IP")
	flag.BoolVar(&settings.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	flag.Parse()

	// Create a structured logger that writes human-readable text to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Open and verify the database connection pool.
	db, err := database.Open(settings.db.dsn)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close() // Close the pool cleanly when main() returns.

	logger.Info("database connection pool established")

	// Bring the schema up to date before accepting any traffic.
	err = database.RunMigrations(settings.db.dsn)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	logger.Info("database migrations applied")

	// Bundle all shared dependencies into a single struct.
	registry := prometheus.NewRegistry()
	appInstance := &applicationDependencies{
		config:   settings,
		logger:   logger,
		models:   data.NewModels(db),
		metrics:  nuevasMetricas(registry),
		registry: registry,
	}

	// serve() blocks until the server shuts down gracefully or fails.
	err = appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
