package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/gruzdev-dev/codex-users/configs"
	"github.com/gruzdev-dev/codex-users/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	cfg, err := configs.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DB.Host == "" {
		log.Fatal("POSTGRES_HOST is required")
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("Failed to create source driver: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, migrateURL(cfg.DatabaseURL()))
	if err != nil {
		log.Fatalf("Failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if *down {
		log.Println("Rolling back database migrations...")
		err = m.Down()
	} else {
		log.Println("Running database migrations...")
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No migrations to apply")
			return
		}
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

// migrateURL switches the scheme to the one registered by the pgx/v5 driver.
func migrateURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") {
		return strings.Replace(databaseURL, "postgres://", "pgx5://", 1)
	} else if strings.HasPrefix(databaseURL, "postgresql://") {
		return strings.Replace(databaseURL, "postgresql://", "pgx5://", 1)
	}
	return databaseURL
}
