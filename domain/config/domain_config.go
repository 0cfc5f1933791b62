package config

import "fmt"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Moment constraints
	MaxTagsPerMoment  int
	MaxTagLength      int
	MaxContentLength  int
	MaxResolutionNote int

	// Connection constraints
	MaxConnectionNameLength int
	MaxConnectionsPerUser   int

	// Query limits
	MaxMomentsPerQuery int
	DefaultPageSize    int

	// Validation settings
	AllowEmptyContent bool
	AllowFutureDates  bool

	// Analytics tuning
	Analytics *AnalyticsConfig
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTagsPerMoment:  20,
		MaxTagLength:      30,
		MaxContentLength:  5000,
		MaxResolutionNote: 2000,

		MaxConnectionNameLength: 80,
		MaxConnectionsPerUser:   100,

		MaxMomentsPerQuery: 5000,
		DefaultPageSize:    20,

		AllowEmptyContent: true,
		AllowFutureDates:  false,

		Analytics: DefaultAnalyticsConfig(),
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Keep analysis bounded on large histories
	config.MaxMomentsPerQuery = 2000
	config.MaxConnectionsPerUser = 50

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Seed scripts backfill history with arbitrary timestamps
	config.AllowFutureDates = true
	config.MaxMomentsPerQuery = 20000

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxTagsPerMoment <= 0 || c.MaxTagLength <= 0 {
		return fmt.Errorf("tag limits must be positive")
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("max content length must be positive")
	}
	if c.MaxConnectionNameLength <= 0 {
		return fmt.Errorf("max connection name length must be positive")
	}
	if c.Analytics == nil {
		return fmt.Errorf("analytics config is required")
	}
	return c.Analytics.Validate()
}
