package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const validConfig = `
database:
  host: db.internal
  port: 5433
  user: fare
  password: "s3cret"
  database: fare_engine

rabbitmq:
  user: guest
  password: guest

services:
  fare_service: 4000

jwt:
  secret_key: "unit-test-secret"

fees:
  platform_fee: 10
  gst_charges_rate: 0.05
  gst_platform_fee_rate: 0.18

deadhead:
  policy: any-ring
  charge: 150

zones:
  inner_lat: 12.9716
  inner_lon: 77.5946
  inner_radius_km: 7.74
  outer_lat: 12.9716
  outer_lon: 77.5946
  outer_radius_km: 25
`

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("password = %q, quotes not stripped", cfg.Database.Password)
	}
	if cfg.Services.FareServicePort != 4000 {
		t.Errorf("fare_service port = %d, want 4000", cfg.Services.FareServicePort)
	}
	if cfg.Deadhead.Policy != "any-ring" || cfg.Deadhead.Charge != 150 {
		t.Errorf("deadhead = %+v", cfg.Deadhead)
	}
	if cfg.Zones.InnerRadiusKM != 7.74 || cfg.Zones.OuterRadiusKM != 25 {
		t.Errorf("zones = %+v", cfg.Zones)
	}

	// defaults fill what the file omits
	if cfg.RabbitMQ.Host != "localhost" || cfg.RabbitMQ.Port != 5672 {
		t.Errorf("rabbitmq defaults = %+v", cfg.RabbitMQ)
	}
	if cfg.WebSocket.Port != 8080 {
		t.Errorf("websocket default port = %d", cfg.WebSocket.Port)
	}
}

func TestLoadFromFileDefaultsDeadheadPolicy(t *testing.T) {
	content := strings.Replace(validConfig, "policy: any-ring\n", "", 1)
	cfg, err := LoadFromFile(writeConfig(t, content))
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Deadhead.Policy != "ring-band-only" {
		t.Errorf("default policy = %q, want ring-band-only", cfg.Deadhead.Policy)
	}
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantMsg string
	}{
		{
			name:    "inverted zone rings",
			mutate:  func(s string) string { return strings.Replace(s, "outer_radius_km: 25", "outer_radius_km: 5", 1) },
			wantMsg: "inner_radius_km must be smaller",
		},
		{
			name:    "unknown deadhead policy",
			mutate:  func(s string) string { return strings.Replace(s, "policy: any-ring", "policy: sometimes", 1) },
			wantMsg: "deadhead.policy",
		},
		{
			name:    "missing database user",
			mutate:  func(s string) string { return strings.Replace(s, "user: fare\n", "", 1) },
			wantMsg: "database.user is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.mutate(validConfig)))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("LoadFromFile() error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	content := validConfig + "\nmetrics:\n  port: 9000\n"
	_, err := LoadFromFile(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), "unknown top-level key") {
		t.Errorf("LoadFromFile() error = %v, want unknown top-level key", err)
	}
}

func TestParseYAMLRejectsDuplicateSections(t *testing.T) {
	content := validConfig + "\ndatabase:\n  host: again\n"
	_, err := LoadFromFile(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), "duplicate 'database' section") {
		t.Errorf("LoadFromFile() error = %v, want duplicate section error", err)
	}
}
