//go:build linux && (arm || arm64)

package fixpin

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// watchFixLine requests the given BCM GPIO as an input and delivers rising
// edges to onPulse via the Linux GPIO character device (libgpiod).
func watchFixLine(pin int, onPulse func(time.Time)) (io.Closer, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("fixpin: invalid gpio pin %d", pin)
	}

	// On Pi, line names are commonly "GPIO18", etc.
	lineName := fmt.Sprintf("GPIO%d", pin)

	// Try likely chips first (Pi 5 kernel variants can expose header GPIOs on
	// gpiochip0 and sometimes additional chips exist).
	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	handler := func(evt gpiocdev.LineEvent) {
		if evt.Type == gpiocdev.LineEventRisingEdge {
			onPulse(time.Now())
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset,
			gpiocdev.AsInput,
			gpiocdev.WithRisingEdge,
			gpiocdev.WithEventHandler(handler),
			gpiocdev.WithConsumer("gpswing-fix"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &gpiodWatch{chip: chip, line: line}, nil
	}

	return nil, fmt.Errorf("fixpin: gpio line %q not found (or busy)", lineName)
}

var watchFixLineFn = watchFixLine

type gpiodWatch struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpiodWatch) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
