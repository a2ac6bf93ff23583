package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Lark          LarkConfig          `mapstructure:"lark"`
	Leave         LeaveConfig         `mapstructure:"leave"`
	Reminder      ReminderConfig      `mapstructure:"reminder"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Report        ReportConfig        `mapstructure:"report"`
	Logger        LoggerConfig        `mapstructure:"logger"`
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
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// LarkConfig holds Lark messaging configuration. When disabled, workflow
// notifications are logged instead of delivered.
type LarkConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	AppID      string        `mapstructure:"app_id"`
	AppSecret  string        `mapstructure:"app_secret"`
	APITimeout time.Duration `mapstructure:"api_timeout"`
}

// LeaveConfig holds leave workflow configuration. StrictLedger controls
// whether a ledger failure rolls back the HR approval or is logged after
// the fact.
type LeaveConfig struct {
	StrictLedger bool `mapstructure:"strict_ledger"`

	AnnualLeaveDays   int `mapstructure:"annual_leave_days"`
	SickLeaveDays     int `mapstructure:"sick_leave_days"`
	PersonalLeaveDays int `mapstructure:"personal_leave_days"`
}

// ReminderConfig holds the pending-approval reminder schedule.
type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// NotificationsConfig holds workflow notification settings.
type NotificationsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SenderName string `mapstructure:"sender_name"`
}

// ReportConfig holds spreadsheet export configuration.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/operations.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Lark defaults
	viper.SetDefault("lark.enabled", false)
	viper.SetDefault("lark.api_timeout", 30*time.Second)

	// Leave defaults
	viper.SetDefault("leave.strict_ledger", true)
	viper.SetDefault("leave.annual_leave_days", 20)
	viper.SetDefault("leave.sick_leave_days", 10)
	viper.SetDefault("leave.personal_leave_days", 5)

	// Reminder defaults: weekday mornings
	viper.SetDefault("reminder.enabled", false)
	viper.SetDefault("reminder.schedule", "0 9 * * 1-5")

	// Notification defaults
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.sender_name", "Operations Desk")

	// Report defaults
	viper.SetDefault("report.output_dir", "generated_reports")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("lark.app_id", "LARK_APP_ID")
	viper.BindEnv("lark.app_secret", "LARK_APP_SECRET")
	viper.BindEnv("database.path", "DATABASE_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Lark credentials are only required when delivery is enabled
	if c.Lark.Enabled {
		if c.Lark.AppID == "" {
			return fmt.Errorf("lark.app_id is required when lark.enabled is true")
		}
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required when lark.enabled is true")
		}
	}

	if c.Leave.AnnualLeaveDays < 0 || c.Leave.SickLeaveDays < 0 || c.Leave.PersonalLeaveDays < 0 {
		return fmt.Errorf("leave grant days must not be negative")
	}

	if c.Reminder.Enabled && c.Reminder.Schedule == "" {
		return fmt.Errorf("reminder.schedule is required when reminder.enabled is true")
	}

	return nil
}
