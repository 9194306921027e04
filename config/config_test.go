package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `api:
  addr: ":8088"
fleet:
  graph_seed: 7
  vehicles_file: "fleet.json"
  prediction_seed: 99
metrics:
  prometheus_enabled: true
  prometheus_port: ":9099"
  influx_enabled: false
telemetry:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "ingest"
  topic: "fleet/+/telemetry"
  qos: 1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"api.addr", cfg.API.Addr, ":8088"},
		{"api.shutdown_timeout_seconds", cfg.API.ShutdownTimeoutSeconds, 5},
		{"fleet.graph_seed", cfg.Fleet.GraphSeed, int64(7)},
		{"fleet.vehicles_file", cfg.Fleet.VehiclesFile, "fleet.json"},
		{"fleet.prediction_seed", cfg.Fleet.PredictionSeed, int64(99)},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9099"},
		{"telemetry.enabled", cfg.Telemetry.Enabled, true},
		{"telemetry.broker", cfg.Telemetry.Broker, "tcp://localhost:1883"},
		{"telemetry.client_id", cfg.Telemetry.ClientID, "ingest"},
		{"telemetry.qos", cfg.Telemetry.QoS, byte(1)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.Addr != ":8080" {
		t.Errorf("default addr mismatch: %s", cfg.API.Addr)
	}
	if cfg.Fleet.GraphSeed != 42 {
		t.Errorf("default graph seed mismatch: %d", cfg.Fleet.GraphSeed)
	}
	if cfg.Metrics.PrometheusPort != ":9091" {
		t.Errorf("default prometheus port mismatch: %s", cfg.Metrics.PrometheusPort)
	}
	if cfg.Telemetry.Topic != "fleet/+/telemetry" {
		t.Errorf("default telemetry topic mismatch: %s", cfg.Telemetry.Topic)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  addr: \":8080\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("K_API__ADDR", ":9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.Addr != ":9000" {
		t.Errorf("env override not applied: %s", cfg.API.Addr)
	}
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadEnabledTelemetryRequiresBroker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("telemetry:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
