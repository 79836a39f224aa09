package config

import (
	"fmt"

	"github.com/rpattn/changelog/internal/db"
	"github.com/spf13/viper"
)

// Config aggregates everything the server needs at startup.
type Config struct {
	DB             db.Config
	ListenAddr     string
	MigrationsPath string
}

// Load reads config.yaml from the given path, with CHANGELOG_* environment
// variables overriding file values and defaults filling the gaps.
func Load(configPath string) (Config, error) {
	cfg := Config{
		DB:             db.DefaultConfig(),
		ListenAddr:     ":8080",
		MigrationsPath: "./migrations",
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("CHANGELOG")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.listen")
	v.BindEnv("migrations.path")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.listen") {
		cfg.ListenAddr = v.GetString("server.listen")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}

	return cfg, nil
}
