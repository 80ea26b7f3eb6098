package app

import (
	"context"
	"fmt"

	"go-leave/internal/config"
	"go-leave/internal/seed"
	"go-leave/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const migrationTable = "schema_migrations"

// RunMigrate applies a goose command ("up", "down", "status", ...) using the
// embedded SQL files, or loads demo data for "seed".
func RunMigrate(ctx context.Context, cfg *config.Config, command string) error {
	logger := zap.L().Named("app.migrate")

	db, err := goose.OpenDBWithDriver("pgx", postgresConfig(cfg).DSN())
	if err != nil {
		return fmt.Errorf("goose: open db: %w", err)
	}
	defer db.Close()

	if command == "seed" {
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("open gorm: %w", err)
		}
		_, err = seed.Run(ctx, gormDB, logger)
		return err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	logger.Info("running migrations", zap.String("command", command))
	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
