package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tourney-sheet-sync/internal/config"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/team"
	"github.com/riskibarqy/tourney-sheet-sync/internal/infrastructure/migration"
	"github.com/riskibarqy/tourney-sheet-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tourney-sheet-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	_ "github.com/lib/pq"
)

type repositories struct {
	matches     match.Repository
	teams       team.Repository
	definitions definition.Repository
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("memory store selected, entities are lost on exit")
		return repositories{
			matches:     memory.NewMatchRepository(),
			teams:       memory.NewTeamRepository(nil),
			definitions: memory.NewDefinitionRepository(nil),
		}, func() error { return nil }, nil
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return repositories{}, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	dbURL := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	if cfg.DBAutoMigrate {
		if err := migrateUp(dbURL, logger); err != nil {
			return repositories{}, nil, err
		}
	}

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres store connected", "database", dbNameFromURL(cfg.DBURL))
	return repositories{
		matches:     postgres.NewMatchRepository(db),
		teams:       postgres.NewTeamRepository(db),
		definitions: postgres.NewDefinitionRepository(db),
	}, db.Close, nil
}

func migrateUp(dbURL string, logger *logging.Logger) (err error) {
	m, source, err := migration.Open(dbURL, "")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		if closeErr := migration.Close(m); closeErr != nil && err == nil {
			err = fmt.Errorf("close migrations: %w", closeErr)
		}
	}()

	applied, err := migration.Up(m)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("schema migrations checked", "source", source, "applied", applied)
	return nil
}
