// Command migrate applies the embedded schema migrations to PostgreSQL.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"

	"nestly/config"
	"nestly/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Migrations applied")
}

func run(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	db, err := sql.Open("pgx", buildDSN(cfg))
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	return nil
}

func buildDSN(cfg *config.Config) string {
	pg := cfg.Postgres

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		pg.Master.UserName,
		pg.Master.Password,
		net.JoinHostPort(pg.Master.Host, pg.Master.Port),
		pg.Database,
		pg.SSLMode,
	)
}
