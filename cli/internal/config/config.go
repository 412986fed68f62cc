package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	DatabasePath   string
	SchemaPath     string
	Pragmas        []string
	AllowDeletions bool
}

// LoadConfig loads configuration from config file, environment, and .env
func LoadConfig() (*Config, error) {
	// Find home directory
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	// Set config file paths
	viper.SetConfigName(".schemasync")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "schemasync"))

	// Set environment variable prefix
	viper.SetEnvPrefix("SCHEMASYNC")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("database_path", "data.db")
	viper.SetDefault("schema_path", "schema.sql")
	viper.SetDefault("pragmas", []string{"user_version", "foreign_keys"})
	viper.SetDefault("allow_deletions", false)

	// Try to read config file (ignore if not found)
	_ = viper.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		DatabasePath:   viper.GetString("database_path"),
		SchemaPath:     viper.GetString("schema_path"),
		Pragmas:        viper.GetStringSlice("pragmas"),
		AllowDeletions: viper.GetBool("allow_deletions"),
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabasePath = url
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("database_path", cfg.DatabasePath)
	viper.Set("schema_path", cfg.SchemaPath)
	viper.Set("pragmas", cfg.Pragmas)
	viper.Set("allow_deletions", cfg.AllowDeletions)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "schemasync")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(configPath, ".schemasync.yaml")
	return viper.WriteConfigAs(configFile)
}
