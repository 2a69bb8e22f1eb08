// Package driver is the facade over the GPS receiver: it owns the serial
// transport, configures the receiver's sentence output and update rate at
// construction, and drives the assemble-validate-parse pipeline on each
// Update call.
package driver

import (
	"fmt"
	"strings"
	"time"

	"gpswing/internal/nmea"
	"gpswing/internal/serial"
)

// MinUpdatePeriod is the fastest fix-update interval the receiver accepts.
const MinUpdatePeriod = 250 * time.Millisecond

// cmdSentences enables GGA and RMC output only (PMTK314 field order:
// GLL, RMC, VTG, GGA, GSA, GSV, ...).
const cmdSentences = "PMTK314,0,1,0,1,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0"

// ConfigError reports fatal construction-time misconfiguration. Everything
// else the driver encounters is degraded gracefully, never fatal.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "driver: " + e.Reason }

// Config controls construction.
//
// Device may be empty to auto-detect a /dev/ttyACM* or /dev/ttyUSB* port.
type Config struct {
	Device string
	Baud   int

	// UpdatePeriod is the receiver fix-update interval; at least 250ms.
	UpdatePeriod time.Duration
}

func (c *Config) validate() error {
	if c.UpdatePeriod < MinUpdatePeriod {
		return &ConfigError{Reason: fmt.Sprintf("update period %v below minimum %v", c.UpdatePeriod, MinUpdatePeriod)}
	}
	if c.Baud == 0 {
		c.Baud = 9600
	}
	if !serial.SupportedBaud(c.Baud) {
		return &ConfigError{Reason: fmt.Sprintf("unsupported baud %d", c.Baud)}
	}
	return nil
}

// ReadTimeout returns the transport read timeout for an update period:
// whole seconds of the period plus two, and never less than three.
func ReadTimeout(period time.Duration) time.Duration {
	secs := int64(period/time.Second) + 2
	if secs < 3 {
		secs = 3
	}
	return time.Duration(secs) * time.Second
}

// Driver is single-threaded and poll-driven: Update is meant to be called
// from one loop at least twice as fast as the receiver emits data. It holds
// no locks; concurrent use requires external mutual exclusion.
type Driver struct {
	port    serial.Port
	device  string
	baud    int
	period  time.Duration
	readBuf []byte

	asm   nmea.Assembler
	state nmea.FixState

	lastErr string
}

// New validates cfg, wraps an already-open transport, and performs the
// one-shot configuration handshake (sentence selection + update interval).
func New(port serial.Port, cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		port:    port,
		device:  cfg.Device,
		baud:    cfg.Baud,
		period:  cfg.UpdatePeriod,
		readBuf: make([]byte, 512),
	}
	if err := d.writeCommand([]byte(cmdSentences)); err != nil {
		return nil, fmt.Errorf("driver: sentence select handshake: %w", err)
	}
	interval := fmt.Sprintf("PMTK220,%d", cfg.UpdatePeriod/time.Millisecond)
	if err := d.writeCommand([]byte(interval)); err != nil {
		return nil, fmt.Errorf("driver: update interval handshake: %w", err)
	}
	return d, nil
}

// Open validates cfg, opens the serial device with the derived read timeout,
// and hands it to New.
func Open(cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	device := strings.TrimSpace(cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			return nil, fmt.Errorf("driver: auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
		}
		cfg.Device = device
	}

	port, err := serial.Open(serial.Options{
		Device:  device,
		Baud:    cfg.Baud,
		Timeout: ReadTimeout(cfg.UpdatePeriod),
	})
	if err != nil {
		return nil, fmt.Errorf("driver: open %s baud=%d: %w", device, cfg.Baud, err)
	}

	d, err := New(port, cfg)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return d, nil
}

// Update reads whatever bytes the transport has and runs them through the
// pipeline. It reports whether at least one sentence updated the fix record.
// A transport timeout is "no new data this cycle", not an error; malformed
// sentences are skipped and never clear prior state.
func (d *Driver) Update() bool {
	n, err := d.port.Read(d.readBuf)
	if err != nil {
		d.lastErr = fmt.Sprintf("read: %v", err)
		return false
	}
	if n == 0 {
		return false
	}

	updated := false
	for _, line := range d.asm.Feed(d.readBuf[:n]) {
		if !nmea.ValidChecksum(line) {
			d.lastErr = "checksum mismatch"
			continue
		}
		sent, perr := nmea.Split(line)
		if perr != nil {
			d.lastErr = perr.Error()
			continue
		}
		if d.state.Apply(sent) {
			updated = true
		}
	}
	return updated
}

// Read exposes raw passthrough bytes for diagnostics. It returns nil for a
// non-positive size or when nothing arrives within the transport timeout.
func (d *Driver) Read(size int) []byte {
	if size <= 0 {
		return nil
	}
	buf := make([]byte, size)
	n, err := d.port.Read(buf)
	if err != nil || n == 0 {
		return nil
	}
	return buf[:n]
}

// SendCommand forwards a raw command payload (already in the receiver's
// binary representation, without $, checksum, or line terminator) to the
// receiver. An empty payload is rejected as a no-op.
func (d *Driver) SendCommand(cmd []byte) error {
	if len(cmd) == 0 {
		return nil
	}
	return d.writeCommand(cmd)
}

func (d *Driver) writeCommand(payload []byte) error {
	frame := fmt.Sprintf("$%s*%02X\r\n", payload, nmea.Checksum(payload))
	_, err := d.port.Write([]byte(frame))
	return err
}

func (d *Driver) Close() error {
	if d == nil || d.port == nil {
		return nil
	}
	return d.port.Close()
}

// Device returns the serial device path in use.
func (d *Driver) Device() string { return d.device }

func (d *Driver) Baud() int { return d.baud }

func (d *Driver) UpdatePeriod() time.Duration { return d.period }

// LastError returns the most recent pipeline or transport complaint, for
// diagnostics only; it does not indicate lost fix state.
func (d *Driver) LastError() string { return d.lastErr }

// Fix returns a read-only snapshot of the current fix record.
func (d *Driver) Fix() nmea.Fix { return d.state.Snapshot() }

// Accessors over the fix record. None of these can fail: absent data is
// reported through the ok result, and derived speeds are computed on read.

func (d *Driver) Latitude() (float64, bool)  { return d.state.Latitude() }
func (d *Driver) Longitude() (float64, bool) { return d.state.Longitude() }
func (d *Driver) FixQuality() (int, bool)    { return d.state.FixQuality() }
func (d *Driver) HasFix() bool               { return d.state.HasFix() }

func (d *Driver) Timestamp() (time.Time, bool) { return d.state.Timestamp() }
func (d *Driver) Satellites() (int, bool)      { return d.state.Satellites() }
func (d *Driver) Altitude() (float64, bool)    { return d.state.AltitudeM() }

func (d *Driver) SpeedKnots() (float64, bool) { return d.state.SpeedKnots() }
func (d *Driver) SpeedMPH() (float64, bool)   { return d.state.SpeedMPH() }
func (d *Driver) SpeedKPH() (float64, bool)   { return d.state.SpeedKPH() }

func (d *Driver) TrackAngle() (float64, bool)         { return d.state.TrackAngle() }
func (d *Driver) HorizontalDilution() (float64, bool) { return d.state.HorizontalDilution() }
func (d *Driver) HeightGeoid() (float64, bool)        { return d.state.HeightGeoid() }
