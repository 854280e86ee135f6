package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// TransportConfig holds the collector's streaming channel configuration
type TransportConfig struct {
	// URL is the aggregator's websocket endpoint
	URL string `mapstructure:"url"`
	// Origin is the origin header sent on the handshake
	Origin string `mapstructure:"origin"`
	// QueueSize bounds the records held in memory while disconnected
	QueueSize int `mapstructure:"queue_size"`
	// MaxReconnectInterval caps the backoff between dial attempts
	MaxReconnectInterval time.Duration `mapstructure:"max_reconnect_interval"`
	// BroadcastLogPath is where administrator broadcasts are appended
	BroadcastLogPath string `mapstructure:"broadcast_log_path"`
}

// ProbesConfig holds the collector's probe configuration
type ProbesConfig struct {
	// Origin is the name the collector reports its measurements under
	Origin string `mapstructure:"origin"`
	// SystemInterval is the system probe's polling cadence
	SystemInterval time.Duration `mapstructure:"system_interval"`
	// SystemDiskPath is the mount point sampled for disk usage
	SystemDiskPath string `mapstructure:"system_disk_path"`
	// GameFeedURL is the featured-game feed endpoint; empty disables the
	// game probe
	GameFeedURL string `mapstructure:"game_feed_url"`
	// GameInterval is the game probe's polling cadence
	GameInterval time.Duration `mapstructure:"game_interval"`
	// Timeout caps a single probe run
	Timeout time.Duration `mapstructure:"timeout"`
}

// CollectorConfig holds configuration for the collector
type CollectorConfig struct {
	BaseConfig `mapstructure:",squash"`
	Transport  TransportConfig `mapstructure:"transport"`
	Probes     ProbesConfig    `mapstructure:"probes"`
}

// AggregatorConfig holds configuration for the aggregator
type AggregatorConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	// BroadcastSenders bounds concurrent broadcast deliveries
	BroadcastSenders int `mapstructure:"broadcast_senders"`
}

// LoadCollectorConfig loads configuration for the collector
func LoadCollectorConfig(configFile string, envPath string) (*CollectorConfig, error) {
	v := configureViper("collector", configFile, envPath)

	// Set defaults
	v.SetDefault("transport.queue_size", 1000)
	v.SetDefault("transport.max_reconnect_interval", "30s")
	v.SetDefault("transport.broadcast_log_path", "broadcasts.log")
	v.SetDefault("probes.system_interval", "10s")
	v.SetDefault("probes.system_disk_path", "/")
	v.SetDefault("probes.game_interval", "2s")
	v.SetDefault("probes.timeout", "5s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config CollectorConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Transport.URL == "" {
		return nil, errors.New("transport.url is required")
	}
	if config.Probes.Origin == "" {
		return nil, errors.New("probes.origin is required")
	}

	return &config, nil
}

// LoadAggregatorConfig loads configuration for the aggregator
func LoadAggregatorConfig(configFile string, envPath string) (*AggregatorConfig, error) {
	v := configureViper("aggregator", configFile, envPath)

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("broadcast_senders", 8)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config AggregatorConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if config.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("TELEMETRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// This is required for viper to map env vars to config struct fields when
// no config file exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		// Server
		"server.host",
		"server.port",
		// Transport
		"transport.url",
		"transport.origin",
		"transport.queue_size",
		"transport.max_reconnect_interval",
		"transport.broadcast_log_path",
		// Probes
		"probes.origin",
		"probes.system_interval",
		"probes.system_disk_path",
		"probes.game_feed_url",
		"probes.game_interval",
		"probes.timeout",
		// Aggregator specific
		"broadcast_senders",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
