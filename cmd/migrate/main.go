package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/migrations"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	dsn, err := resolveDSN()
	if err != nil {
		logging.Fatal().Err(err).Msg("No database to migrate")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if _, err := db.Exec(migrations.CreateTableSQL); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create migrations table")
	}

	if *rollback {
		if err := rollbackLast(db); err != nil {
			logging.Fatal().Err(err).Msg("Rollback failed")
		}
		return
	}
	if err := applyAll(db); err != nil {
		logging.Fatal().Err(err).Msg("Migration failed")
	}
	logging.Info().Msg("All migrations applied successfully")
}

// resolveDSN prefers DATABASE_URL and falls back to the Postgres settings
func resolveDSN() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.DBDriver != config.DriverPostgres {
		return "", fmt.Errorf("migrations only target postgres, DB_DRIVER is %q", cfg.DBDriver)
	}
	return cfg.PostgresDSN(), nil
}

func applyAll(db *sql.DB) error {
	list, err := migrations.List()
	if err != nil {
		return err
	}

	for _, m := range list {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			logging.Info().Str("migration", m.Name).Msg("Migration already applied")
			continue
		}

		content, err := migrations.Read(m.Name)
		if err != nil {
			return err
		}
		err = inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(content); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name); err != nil {
				return fmt.Errorf("failed to record migration: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		logging.Info().Str("migration", m.Name).Msg("Successfully applied migration")
	}
	return nil
}

func rollbackLast(db *sql.DB) error {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC, version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		logging.Info().Msg("No migrations to rollback")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	content, err := migrations.Rollback(name)
	if err != nil {
		return err
	}
	err = inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(content); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.Info().Str("migration", name).Msg("Successfully rolled back migration")
	return nil
}

func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
