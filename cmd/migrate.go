package cmd

import (
	"context"
	"log"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the db migrations embedded from db/migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()

	if migrateRollback {
		source, err := store.Rollback(ctx, db.DB, goose.DialectPostgres)
		if err != nil {
			log.Fatalf("goose down: %v", err)
		}
		log.Printf("rolled back %s", source)
		return nil
	}

	applied, err := store.Migrate(ctx, db.DB, goose.DialectPostgres)
	if err != nil {
		log.Fatalf("goose up: %v", err)
	}
	if len(applied) == 0 {
		log.Println("schema is up to date")
		return nil
	}
	for _, source := range applied {
		log.Printf("applied %s", source)
	}
	return nil
}
