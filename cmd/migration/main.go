package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/tourney-sheet-sync/internal/app"
	"github.com/riskibarqy/tourney-sheet-sync/internal/infrastructure/migration"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 {
		printUsage(args[0])
		return 2
	}

	envFile := strings.TrimSpace(os.Getenv("APP_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load env file %s: %v\n", envFile, err)
		return 1
	}

	logger := logging.NewJSON(logging.LevelInfo).Named("migration")
	defer func() { _ = logger.Sync() }()

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		logger.Error("DB_URL is required")
		return 1
	}
	disableBinary, err := strconv.ParseBool(envOr("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		logger.Error("parse DB_DISABLE_PREPARED_BINARY_RESULT", "error", err)
		return 1
	}

	m, source, err := migration.Open(app.NormalizeDBURL(dbURL, disableBinary), os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		logger.Error("create migrator", "error", err)
		return 1
	}
	defer func() {
		if err := migration.Close(m); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	switch cmd := strings.ToLower(strings.TrimSpace(args[1])); cmd {
	case "up":
		applied, err := migration.Up(m)
		if err != nil {
			logger.Error("apply migrations", "source", source, "error", err)
			return 1
		}
		logger.Info("migrations checked", "source", source, "applied", applied)
	case "down":
		steps, err := parsePositive(args[2:], 1)
		if err != nil {
			logger.Error("parse down steps", "error", err)
			return 1
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("roll back migrations", "steps", steps, "error", err)
			return 1
		}
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return 0
		}
		if err != nil {
			logger.Error("read version", "error", err)
			return 1
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)
	case "force":
		if len(args) < 3 {
			logger.Error("force requires a version argument")
			return 2
		}
		version, err := strconv.Atoi(strings.TrimSpace(args[2]))
		if err != nil || version < 0 {
			logger.Error("invalid version", "raw", args[2])
			return 2
		}
		if err := m.Force(version); err != nil {
			logger.Error("force version", "version", version, "error", err)
			return 1
		}
		logger.Info("version forced", "version", version)
	default:
		printUsage(args[0])
		return 2
	}
	return 0
}

func parsePositive(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", args[0], err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("count must be > 0, got %d", n)
	}
	return n, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func printUsage(bin string) {
	name := filepath.Base(bin)
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <version>>\n", name)
	fmt.Fprintln(os.Stderr, "MIGRATIONS_DIR selects a directory of .sql files, otherwise the embedded schema is used.")
}
