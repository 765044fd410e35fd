// Package container provides dependency injection and lifecycle management
// for the contract approval service following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/garyjia/contract-approval/internal/domain/threshold"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Server configuration
	Server ServerConfig

	// Approval matrix and allocation settings
	Approval ApprovalConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration
}

// ApprovalConfig holds approval matrix and cost allocation settings.
type ApprovalConfig struct {
	// UnboundedSentinel marks rule upper bounds treated as unlimited
	UnboundedSentinel int64

	// AllocationTolerance is the allowed gap between allocated and total amounts
	AllocationTolerance float64

	// AllocationRequiredCategories must be fully allocated before finalizing
	AllocationRequiredCategories []entity.Category
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/approval.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Approval: ApprovalConfig{
			UnboundedSentinel:   threshold.DefaultSentinel,
			AllocationTolerance: 1,
			AllocationRequiredCategories: []entity.Category{
				entity.CategoryStandardPurchase,
				entity.CategoryService,
			},
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Approval.UnboundedSentinel <= 0 {
		return fmt.Errorf("approval.unbounded_sentinel must be positive")
	}
	return nil
}
