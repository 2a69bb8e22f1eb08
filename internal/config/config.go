package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS    GPSConfig    `yaml:"gps"`
	FixPin FixPinConfig `yaml:"fix_pin"`
	Web    WebConfig    `yaml:"web"`
}

type GPSConfig struct {
	// Device is the serial device path; empty means auto-detect
	// /dev/ttyACM* then /dev/ttyUSB*.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	// UpdatePeriod is the receiver fix-update interval (min 250ms).
	UpdatePeriod time.Duration `yaml:"update_period"`
}

type FixPinConfig struct {
	Enable bool `yaml:"enable"`
	// Pin is BCM GPIO numbering for the FIX indicator line.
	Pin int `yaml:"pin"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 9600
	}
	if cfg.GPS.UpdatePeriod <= 0 {
		cfg.GPS.UpdatePeriod = 1 * time.Second
	}

	if cfg.FixPin.Enable && cfg.FixPin.Pin <= 0 {
		return Config{}, fmt.Errorf("fix_pin.pin is required when fix_pin.enable is true")
	}

	if cfg.Web.Enable && cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}

	return cfg, nil
}
