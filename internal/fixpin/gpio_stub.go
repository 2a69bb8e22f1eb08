//go:build !linux || (!arm && !arm64)

package fixpin

import (
	"fmt"
	"io"
	"time"
)

// Stub implementation for non-Linux and/or non-ARM platforms.
func watchFixLine(pin int, onPulse func(time.Time)) (io.Closer, error) {
	return nil, fmt.Errorf("fixpin: gpio unsupported on this platform")
}

var watchFixLineFn = watchFixLine
