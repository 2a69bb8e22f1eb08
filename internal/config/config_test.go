package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "gpswing.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, "gps: {}\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GPS.Baud != 9600 {
		t.Fatalf("expected default baud 9600, got %d", cfg.GPS.Baud)
	}
	if cfg.GPS.UpdatePeriod != time.Second {
		t.Fatalf("expected default update period 1s, got %v", cfg.GPS.UpdatePeriod)
	}
	if cfg.Web.Enable {
		t.Fatalf("web must default to disabled")
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `
gps:
  device: /dev/ttyUSB1
  baud: 38400
  update_period: 500ms
fix_pin:
  enable: true
  pin: 17
web:
  enable: true
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GPS.Device != "/dev/ttyUSB1" || cfg.GPS.Baud != 38400 {
		t.Fatalf("unexpected gps config: %+v", cfg.GPS)
	}
	if cfg.GPS.UpdatePeriod != 500*time.Millisecond {
		t.Fatalf("unexpected update period: %v", cfg.GPS.UpdatePeriod)
	}
	if cfg.FixPin.Pin != 17 {
		t.Fatalf("unexpected fix pin: %+v", cfg.FixPin)
	}
	if cfg.Web.Listen != ":8080" {
		t.Fatalf("expected default listen, got %q", cfg.Web.Listen)
	}
}

func TestLoad_FixPinRequiresPin(t *testing.T) {
	p := writeConfig(t, "fix_pin:\n  enable: true\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
