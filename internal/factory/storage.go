package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibegen/mission-control/internal/config"
	storepkg "github.com/vibegen/mission-control/internal/store"
	storepg "github.com/vibegen/mission-control/internal/store/postgres"
	storesqlite "github.com/vibegen/mission-control/internal/store/sqlite"
)

// NewStore returns a store.Store for the configured driver.
// SQLite is the default single-node backend; Postgres is for shared
// deployments. Both apply their schema before first use.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		st, err := storesqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("store opened")
		return st, nil

	case "postgres":
		dsn := cfg.PostgresDSN
		if dsn == "" {
			return nil, fmt.Errorf("MISSION_CONTROL_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}

		// Open connection synchronously since health checks need it immediately
		db, err := storepg.Open(dsn)
		if err != nil {
			return nil, err
		}

		// Async bootstrap check; don't block startup
		go func() {
			bootstrapCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := storepg.Bootstrap(bootstrapCtx, dsn); err != nil {
				log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap check failed")
			} else {
				log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap check completed")
			}
		}()

		return storepg.NewWithDB(db), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
