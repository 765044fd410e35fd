package config

import (
	"fmt"
	"time"

	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Approval ApprovalConfig `mapstructure:"approval"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"` // empty uses the embedded migrations
}

// ApprovalConfig holds approval matrix and cost allocation settings
type ApprovalConfig struct {
	UnboundedSentinel            int64    `mapstructure:"unbounded_sentinel"`
	AllocationTolerance          float64  `mapstructure:"allocation_tolerance"`
	AllocationRequiredCategories []string `mapstructure:"allocation_required_categories"`
}

// RequiredCategories returns the configured categories as typed values
func (a ApprovalConfig) RequiredCategories() []entity.Category {
	categories := make([]entity.Category, 0, len(a.AllocationRequiredCategories))
	for _, c := range a.AllocationRequiredCategories {
		categories = append(categories, entity.Category(c))
	}
	return categories
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	OutputPath  string `mapstructure:"output_path"`
	Format      string `mapstructure:"format"`
	Service     string `mapstructure:"service"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/approval.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")

	// Approval defaults
	v.SetDefault("approval.unbounded_sentinel", int64(999_999_999_999))
	v.SetDefault("approval.allocation_tolerance", 1.0)
	v.SetDefault("approval.allocation_required_categories", []string{
		string(entity.CategoryStandardPurchase),
		string(entity.CategoryService),
	})

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.service", "contract-approval")
	v.SetDefault("logger.development", false)
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "APPROVAL_SERVER_PORT")
	_ = v.BindEnv("database.path", "APPROVAL_DB_PATH")
	_ = v.BindEnv("logger.level", "APPROVAL_LOG_LEVEL")
	_ = v.BindEnv("logger.development", "APPROVAL_LOG_DEVELOPMENT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Approval.UnboundedSentinel <= 0 {
		return fmt.Errorf("approval.unbounded_sentinel must be positive")
	}
	if c.Approval.AllocationTolerance < 0 {
		return fmt.Errorf("approval.allocation_tolerance must not be negative")
	}
	for _, category := range c.Approval.RequiredCategories() {
		if !category.IsValid() {
			return fmt.Errorf("approval.allocation_required_categories: %w: %s", entity.ErrInvalidCategory, category)
		}
	}

	return nil
}
