package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	departmentPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
	tokenPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user"
	userPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample departments, tokens and users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := store.OpenPostgres(db.DB)
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if err := seedSampleData(context.Background(), gdb, cfg.Security.BCryptCost, clearData, os.Stdout); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

var sampleDepartments = []department.CreateDepartmentDTO{
	{ID: "DV001", Name: "Phòng Kỹ thuật"},
	{ID: "DV002", Name: "Phòng Hành chính"},
	{ID: "DV003", Name: "Phòng Kế toán"},
}

var sampleTokens = []token.CreateTokenDTO{
	{TokenID: "TK001", DeviceCode: "USB-TOKEN-001", Password: "password123", ValidUntil: "2026-12-31 23:59:59"},
	{TokenID: "TK002", DeviceCode: "USB-TOKEN-002", Password: "password456", ValidUntil: "2026-12-31 23:59:59"},
}

func sampleUsers() []user.CreateUserDTO {
	str := func(s string) *string { return &s }
	num := func(n int64) *int64 { return &n }
	return []user.CreateUserDTO{
		{UserID: "USER001", Name: "Nguyễn Văn A", NationalIDNumber: num(123456789), DepartmentID: str("DV001"), TokenID: str("TK001"), Role: str("Admin")},
		{UserID: "USER002", Name: "Trần Thị B", NationalIDNumber: num(987654321), DepartmentID: str("DV002"), TokenID: str("TK002"), Role: str("User")},
	}
}

// seedSampleData inserts the sample rows through the services, so they pass
// the same validation as API writes. Rows that already exist are skipped.
func seedSampleData(ctx context.Context, gdb *gorm.DB, bcryptCost int, clear bool, out io.Writer) error {
	lg := logger.LoggerWrapper()

	if clear {
		if err := clearSampleTables(ctx, gdb); err != nil {
			return err
		}
		fmt.Fprintln(out, "Cleared users, tokens and departments")
	}

	departments := department.NewService(departmentPostgres.NewDepartmentRepository(gdb), lg)
	tokens := token.NewService(tokenPostgres.NewTokenRepository(gdb), bcryptCost, lg)
	users := user.NewService(userPostgres.NewUserRepository(gdb), lg)

	for _, dto := range sampleDepartments {
		dto := dto
		if err := seedRow(out, "department", dto.ID, func() error {
			_, err := departments.Create(ctx, &dto)
			return err
		}); err != nil {
			return err
		}
	}

	for _, dto := range sampleTokens {
		dto := dto
		if err := seedRow(out, "token", dto.TokenID, func() error {
			_, err := tokens.Create(ctx, &dto)
			return err
		}); err != nil {
			return err
		}
	}

	for _, dto := range sampleUsers() {
		dto := dto
		if err := seedRow(out, "user", dto.UserID, func() error {
			_, err := users.Create(ctx, &dto)
			return err
		}); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Sample data seeded successfully")
	return nil
}

func seedRow(out io.Writer, kind, id string, create func() error) error {
	err := create()
	if err == nil {
		fmt.Fprintf(out, "Seeded %s: %s\n", kind, id)
		return nil
	}
	if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeDuplicateKey {
		fmt.Fprintf(out, "%s %s already exists; skipping\n", kind, id)
		return nil
	}
	return fmt.Errorf("failed to seed %s %s: %w", kind, id, err)
}

func clearSampleTables(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"users", "tokens", "departments"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
