// Package config holds the tunable constants spec.md §9 asks to
// expose instead of hard-coding (the forward windows and the transfer
// cost), plus the database settings the Postgres loader needs. Loaded
// with viper the way samirrijal-bilbopass/internal/pkg/config does:
// defaults, optional config file, then environment override.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Tunables are the Round Engine's configurable constants. Defaults
// match the literal values spec.md §4.4 and §9 specify.
type Tunables struct {
	// QueryWindowSeconds bounds the departures a search may board:
	// [departure, departure + QueryWindowSeconds].
	QueryWindowSeconds int `mapstructure:"query_window_seconds"`
	// BoardingWindowSeconds bounds how far forward a round looks for
	// a boardable trip at one stop.
	BoardingWindowSeconds int `mapstructure:"boarding_window_seconds"`
	// TransferCostSeconds is the constant same-station transfer
	// penalty; see TransferTime for the extension hook.
	TransferCostSeconds int `mapstructure:"transfer_cost_seconds"`
}

// TransferTime is the designed extension point spec.md §4.4 and §9
// describe: a time- and day-dependent transfer cost hook that
// currently always returns the configured constant. fromStop, toStop,
// clockSecond and dayOfWeek are accepted so a future implementation
// can vary the cost without changing the Round Engine's call site.
func (t Tunables) TransferTime(fromStop, toStop uint32, clockSecond int, dayOfWeek int) int {
	return t.TransferCostSeconds
}

// Config is the full process configuration: tunables plus the
// optional database connection the Postgres loader uses.
type Config struct {
	Tunables Tunables       `mapstructure:"tunables"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
}

// DatabaseConfig configures internal/loader.PostgresSource.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders a postgres connection string for pgxpool.ParseConfig.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ServerConfig configures internal/httpapi.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from an optional config file and
// TRANSITRAPTOR_-prefixed environment variables, falling back to
// spec.md's literal defaults for every tunable.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("tunables.query_window_seconds", 6*3600)
	v.SetDefault("tunables.boarding_window_seconds", 3600)
	v.SetDefault("tunables.transfer_cost_seconds", 180)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "transit")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "transit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("server.addr", ":8080")

	v.SetConfigName("transitraptor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // absent config file is not an error

	v.SetEnvPrefix("TRANSITRAPTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
