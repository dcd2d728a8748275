// Package storetest opens throwaway SQLite stores carrying the production schema.
package storetest

import (
	"context"
	"fmt"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memoryDSN enables foreign key enforcement, which SQLite leaves off by default.
const memoryDSN = "file::memory:?_foreign_keys=on"

// OpenSQLite returns a fresh in-memory database migrated with the embedded
// goose migrations. The pool is pinned to one connection so every query sees
// the same in-memory database.
func OpenSQLite(ctx context.Context) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(memoryDSN), store.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if _, err := store.Migrate(ctx, sqlDB, goose.DialectSQLite3); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

// Close releases the connection behind gdb.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
