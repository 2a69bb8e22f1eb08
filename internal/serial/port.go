// Package serial opens the UART link to the GPS receiver in raw mode with a
// bounded read timeout. It is the byte-transport collaborator for the driver;
// it knows nothing about NMEA.
package serial

import (
	"io"
	"time"
)

// Port is a raw byte transport. Read returns whatever bytes are available,
// waiting at most the timeout configured at open; a timed-out read returns
// (0, nil) rather than an error.
type Port interface {
	io.ReadWriteCloser
}

// Options configures Open.
type Options struct {
	// Device is the serial device path, e.g. /dev/ttyUSB0.
	Device string
	Baud   int
	// Timeout bounds a single Read. Rounded to tenths of a second and capped
	// at 25.5s by the termios VTIME field.
	Timeout time.Duration
}

// SupportedBaud reports whether the platform serial open accepts this rate.
func SupportedBaud(baud int) bool {
	switch baud {
	case 4800, 9600, 19200, 38400, 57600, 115200:
		return true
	default:
		return false
	}
}
