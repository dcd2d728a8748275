package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/api"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	departmentPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/ocr"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
	tokenPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport/rest"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user"
	userPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := internal.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)

	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(deps.Gorm), deps.Logger)
	tokenService := token.NewService(tokenPostgres.NewTokenRepository(deps.Gorm), cfg.Security.BCryptCost, deps.Logger)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), deps.Logger)
	ocrClient := ocr.NewClient(ocr.Config{
		BaseURL:  cfg.OCR.BaseURL,
		Endpoint: cfg.OCR.Endpoint,
		Timeout:  cfg.OCR.Timeout,
	}, deps.Logger)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Department: department.NewHandler(base, departmentService),
		Token:      token.NewHandler(base, tokenService),
		User:       user.NewHandler(base, userService),
		OCR:        ocr.NewHandler(base, ocrClient),
	}, cfg.Server.AllowedOrigins, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	ctx := context.Background()
	if _, err := api.Load(ctx); err != nil {
		return nil, fmt.Errorf("invalid api document: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if config.Database.MigrateOnStart {
		applied, err := store.Migrate(ctx, db.DB, goose.DialectPostgres)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		lg.Info("database schema ready", "applied", applied)
	}

	gdb, err := store.OpenPostgres(db.DB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the single connection pool shared by gorm, goose and the
// health check.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}
