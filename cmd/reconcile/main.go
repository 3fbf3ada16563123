// Command reconcile recomputes the aggregate rating of every business profile.
// It repairs drift left behind by swallowed recompute failures and is meant to
// run as a scheduled job alongside the API server.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/config"
	"github.com/brandbuilder/reviewgate-backend/internal/database"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	businessRepository := database.NewBusinessRepository(db)
	ratingService := services.NewRatingService(businessRepository, logger)

	processed, failed, err := ratingService.ReconcileAll()
	if err != nil {
		logger.Fatalf("Rating reconciliation failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"processed": processed,
		"failed":    failed,
	}).Info("Rating reconciliation finished")

	if failed > 0 {
		os.Exit(1)
	}
}
