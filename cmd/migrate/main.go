package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/rbroggi/hbnb/internal/config"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
}

var (
	down = flag.Bool("down", false, "run migration down")
	dir  = flag.String("dir", "db/migrations", "migrations directory, relative to the working directory")
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store.Medium != config.MediumPostgres {
		log.WithField("medium", cfg.Store.Medium).Warn("store medium is not postgres, migrating HBNB_POSTGRES_URL anyway")
	}

	db, err := sql.Open("postgres", cfg.Store.PostgresURL)
	if err != nil {
		return err
	}
	defer db.Close()
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(*dir)
	if err != nil {
		return err
	}
	migrationsDir := "file://" + filepath.ToSlash(abs)
	log.WithField("dir", migrationsDir).Info("using migrations")
	m, err := migrate.NewWithDatabaseInstance(migrationsDir, "postgres", driver)
	if err != nil {
		return err
	}
	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no migration to apply")
		return nil
	}
	return err
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
}
