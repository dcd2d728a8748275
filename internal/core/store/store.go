package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/db"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrReferenceNotFound = errors.New("referenced record not found")
	// ErrNothingToUpdate is returned by partial updates that carry no field.
	ErrNothingToUpdate = errors.New("nothing to update")
)

// Now is the clock used for server-assigned timestamps. Timestamps are kept in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// GormConfig returns the gorm settings shared by the server and the test suites.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        Now,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

// OpenPostgres wraps an already opened pgx connection pool with gorm.
func OpenPostgres(conn *sql.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm on postgres: %w", err)
	}
	return gdb, nil
}

// Translate maps driver constraint violations onto the store sentinels.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrReferenceNotFound, err)
	}
	return err
}

func newProvider(conn *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	fsys, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, conn, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration. Running it on an up-to-date schema is a no-op.
func Migrate(ctx context.Context, conn *sql.DB, dialect goose.Dialect) ([]string, error) {
	provider, err := newProvider(conn, dialect)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}

// Rollback reverts the latest applied migration.
func Rollback(ctx context.Context, conn *sql.DB, dialect goose.Dialect) (string, error) {
	provider, err := newProvider(conn, dialect)
	if err != nil {
		return "", err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to roll back migration: %w", err)
	}
	return result.Source.Path, nil
}
