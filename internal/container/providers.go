package container

import (
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/contract-approval/internal/application/port"
	"github.com/garyjia/contract-approval/internal/application/service"
	"github.com/garyjia/contract-approval/internal/infrastructure/persistence/repository"
	"github.com/garyjia/contract-approval/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/contract-approval/internal/infrastructure/report"
	httpserver "github.com/garyjia/contract-approval/internal/interfaces/http"
	"github.com/garyjia/contract-approval/migrations"
	"github.com/garyjia/contract-approval/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	Conn           *database.DB
	TransactionMgr *sqlite.DB
}

// ProvideDatabase opens the database and applies pending migrations.
// Migrations come from MigrationsDir when set, otherwise from the binary.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	conn, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	var source fs.FS = migrations.FS
	if cfg.MigrationsDir != "" {
		source = os.DirFS(cfg.MigrationsDir)
	}

	if err := database.NewMigrator(conn, logger).RunMigrations(source); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		Conn:           conn,
		TransactionMgr: sqlite.NewDB(conn.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories on top of the transaction manager.
func ProvideRepositories(db *sqlite.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Rule:     repository.NewRuleRepository(db, logger),
		LineItem: repository.NewLineItemRepository(db, logger),
	}, nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	TxManager port.TransactionManager
	Approval  *ApprovalConfig
	Logger    *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Approval == nil {
		return nil, fmt.Errorf("approval config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	svcLogger := &zapLoggerAdapter{logger: deps.Logger}

	return &ServiceBundle{
		Matrix: service.NewApprovalMatrixService(
			deps.Repos.Rule,
			report.NewMatrixWorkbook(deps.Logger),
			deps.Approval.UnboundedSentinel,
			svcLogger,
		),
		Allocation: service.NewAllocationService(
			deps.Repos.LineItem,
			deps.TxManager,
			deps.Approval.AllocationTolerance,
			deps.Approval.AllocationRequiredCategories,
			svcLogger,
		),
	}, nil
}

// ProvideServer creates the HTTP server for the given services.
func ProvideServer(cfg *ServerConfig, services *ServiceBundle, logger *zap.Logger) (*httpserver.Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server config is required")
	}
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	return httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Host,
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		services.Matrix,
		services.Allocation,
		&zapLoggerAdapter{logger: logger},
	), nil
}
