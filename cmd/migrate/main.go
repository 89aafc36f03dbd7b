// Command migrate applies or inspects the postgres schema migrations that
// are embedded in the sqlstore package.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/infrastructure/config"
	"github.com/99minutos/users-api/internal/infrastructure/db/sqlstore"
	"github.com/99minutos/users-api/pkg/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, version, force")
		steps   = flag.Int("steps", 0, "Number of migration steps (for up/down, 0 = all)")
		version = flag.Int("version", -1, "Target version (for force command)")
	)
	flag.Parse()

	log := logger.Init(logger.Options{Level: "info", Pretty: true, Service: "users-migrate"})
	os.Exit(migrate(log, *command, *steps, *version))
}

// migrate returns the process exit code so the migrator is closed before exit.
func migrate(log zerolog.Logger, command string, steps, version int) int {
	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("config error")
		return 1
	}
	if cfg.Database.Adapter != config.AdapterPostgres {
		log.Error().Str("db_adapter", cfg.Database.Adapter).Msg("migrations only apply to the postgres adapter")
		return 1
	}

	m, err := sqlstore.NewMigrator(cfg.Database.PostgresDSN)
	if err != nil {
		log.Error().Err(err).Msg("migrator init failed")
		return 1
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(steps); err != nil {
			log.Error().Err(err).Msg("migration up failed")
			return 1
		}
		log.Info().Msg("migrations applied")
	case "down":
		if err := m.Down(steps); err != nil {
			log.Error().Err(err).Msg("migration down failed")
			return 1
		}
		log.Info().Msg("migrations rolled back")
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			log.Error().Err(err).Msg("failed to read version")
			return 1
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		if dirty {
			return 1
		}
	case "force":
		if version < 0 {
			log.Error().Msg("force requires -version")
			return 1
		}
		if err := m.Force(version); err != nil {
			log.Error().Err(err).Msg("force failed")
			return 1
		}
		log.Info().Int("version", version).Msg("forced version")
	default:
		log.Error().Str("command", command).Msg("unknown command (supported: up, down, version, force)")
		return 1
	}
	return 0
}
