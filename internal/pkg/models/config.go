package models

import "time"

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	APIKey   APIKeyConfig
	Match    MatchConfig
	Tracking TrackingConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// APIKeyConfig contains keys for internal service-to-service routes
type APIKeyConfig struct {
	DispatchService string
}

// MatchConfig contains coordinator-specific configuration
type MatchConfig struct {
	SearchRadiusKm   float64       `json:"search_radius_km"`  // radius for candidate lookup
	AcceptTimeout    time.Duration `json:"accept_timeout"`    // window for driver accept/decline
	MaxReassignments int           `json:"max_reassignments"` // declines/timeouts before giving up
	CandidateBudget  int           `json:"candidate_budget"`  // reserve attempts per match pass
}

// TrackingConfig contains location broadcaster configuration
type TrackingConfig struct {
	LocationTTL time.Duration `json:"location_ttl"` // retention of last-known positions
}

// NewRelicConfig contains New Relic observability configuration
type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// LoggerConfig contains structured logging configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
