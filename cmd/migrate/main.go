package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/infrastructure/config"
	"github.com/fabworks/backend/internal/infrastructure/logger"
	"github.com/fabworks/backend/internal/infrastructure/persistence"
)

// Applies the schema to the configured database and exits. The server runs
// the same migration on startup; this command exists for deploy pipelines
// that migrate before rolling the new binary.
func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migration complete", zap.String("database", cfg.Database.DBName))
}
