package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string // YAML key: "database"
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	WebSocket struct {
		Port int
	}
	Services struct {
		FareServicePort int
	}
	JWT struct {
		SecretKey string // YAML key: "secret_key"
	}
	// Fees and taxes applied by the aggregator. Loaded once and passed to the
	// engine explicitly; never read from module globals.
	Fees struct {
		PlatformFee     float64
		GSTChargesRate  float64
		GSTPlatformRate float64
	}
	// Deadhead surcharge policy. The ring semantics are a pending product
	// decision, so the strategy name is configuration, not code.
	Deadhead struct {
		Policy string
		Charge float64
	}
	// Deployment zone rings for drop-off classification.
	Zones struct {
		InnerLat      float64
		InnerLon      float64
		InnerRadiusKM float64
		OuterLat      float64
		OuterLon      float64
		OuterRadiusKM float64
	}
}

// LoadFromFile loads config from a YAML file to a Config struct, applies defaults, and validates required fields.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := parseYAML(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	// RabbitMQ
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}

	// WebSocket
	if cfg.WebSocket.Port == 0 {
		cfg.WebSocket.Port = 8080
	}

	// Services
	if cfg.Services.FareServicePort == 0 {
		cfg.Services.FareServicePort = 3002
	}

	if cfg.JWT.SecretKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			// fallback: time-based bytes
			key = []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
		}
		cfg.JWT.SecretKey = base64.StdEncoding.EncodeToString(key)
	}

	// Fees: Indian GST split used in production — 5% on ride charges,
	// 18% on the platform fee.
	if cfg.Fees.GSTChargesRate == 0 {
		cfg.Fees.GSTChargesRate = 0.05
	}
	if cfg.Fees.GSTPlatformRate == 0 {
		cfg.Fees.GSTPlatformRate = 0.18
	}

	// Deadhead: ring-band-only is the currently-shipped interpretation.
	if cfg.Deadhead.Policy == "" {
		cfg.Deadhead.Policy = "ring-band-only"
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	// DB
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.name is required")
	}

	// RabbitMQ
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	// Services
	if c.Services.FareServicePort <= 0 || c.Services.FareServicePort > 65535 {
		problems = append(problems, "services.fare_service must be in 1..65535")
	}

	// Fees
	if c.Fees.PlatformFee < 0 {
		problems = append(problems, "fees.platform_fee cannot be negative")
	}
	if c.Fees.GSTChargesRate < 0 || c.Fees.GSTChargesRate > 1 {
		problems = append(problems, "fees.gst_charges_rate must be in 0..1")
	}
	if c.Fees.GSTPlatformRate < 0 || c.Fees.GSTPlatformRate > 1 {
		problems = append(problems, "fees.gst_platform_rate must be in 0..1")
	}

	// Deadhead
	switch c.Deadhead.Policy {
	case "ring-band-only", "any-ring", "inner-ring-only":
	default:
		problems = append(problems, "deadhead.policy must be one of ring-band-only, any-ring, inner-ring-only")
	}
	if c.Deadhead.Charge < 0 {
		problems = append(problems, "deadhead.charge cannot be negative")
	}

	// Zones
	if c.Zones.InnerRadiusKM <= 0 || c.Zones.OuterRadiusKM <= 0 {
		problems = append(problems, "zones radii must be positive")
	} else if c.Zones.InnerRadiusKM >= c.Zones.OuterRadiusKM {
		problems = append(problems, "zones.inner_radius_km must be smaller than zones.outer_radius_km")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
