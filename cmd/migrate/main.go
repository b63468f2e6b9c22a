package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/BradenHooton/frontdesk/internal/config"
	"github.com/BradenHooton/frontdesk/internal/migration"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	direction := flag.String("direction", "up", "migration direction: up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	m, err := migration.NewMigrator(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to create migrator", slog.Any("error", err))
		os.Exit(1)
	}
	defer m.Close()

	switch *direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "status":
		var v int64
		v, err = m.CurrentVersion()
		if err == nil {
			fmt.Printf("current version: %d\n", v)
		}
	default:
		err = fmt.Errorf("unknown direction %q", *direction)
	}

	if err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}
