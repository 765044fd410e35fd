package config

import (
	"github.com/garyjia/contract-approval/internal/container"
	"github.com/garyjia/contract-approval/pkg/utils"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
		Approval: container.ApprovalConfig{
			UnboundedSentinel:            c.Approval.UnboundedSentinel,
			AllocationTolerance:          c.Approval.AllocationTolerance,
			AllocationRequiredCategories: c.Approval.RequiredCategories(),
		},
	}
}

// ToLoggerConfig converts the logger section to the settings NewLogger takes
func (c *Config) ToLoggerConfig() utils.LoggerConfig {
	return utils.LoggerConfig{
		Level:       c.Logger.Level,
		OutputPath:  c.Logger.OutputPath,
		Format:      c.Logger.Format,
		Service:     c.Logger.Service,
		Development: c.Logger.Development,
	}
}
