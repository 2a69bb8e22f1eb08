package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gpswing/internal/config"
	"gpswing/internal/driver"
	"gpswing/internal/fixpin"
	"gpswing/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./gpswing.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	drv, err := driver.Open(driver.Config{
		Device:       cfg.GPS.Device,
		Baud:         cfg.GPS.Baud,
		UpdatePeriod: cfg.GPS.UpdatePeriod,
	})
	if err != nil {
		log.Fatalf("gps open failed: %v", err)
	}
	defer func() { _ = drv.Close() }()

	log.Printf("gpswing starting")
	log.Printf("gps device=%s baud=%d period=%s timeout=%s",
		drv.Device(), drv.Baud(), drv.UpdatePeriod(), driver.ReadTimeout(drv.UpdatePeriod()))

	var pin *fixpin.Service
	if cfg.FixPin.Enable {
		pin = fixpin.New(cfg.FixPin.Pin)
		if err := pin.Start(); err != nil {
			// Best-effort: a dead indicator line should not stop navigation.
			log.Printf("fix pin watch failed pin=%d: %v", cfg.FixPin.Pin, err)
			pin = nil
		} else {
			defer pin.Close()
			log.Printf("fix pin enabled pin=%d", cfg.FixPin.Pin)
		}
	}

	status := web.NewStatus()
	status.SetStatic(drv.Device(), drv.Baud(), drv.UpdatePeriod())

	if cfg.Web.Enable {
		go func() {
			log.Printf("web listening on %s", cfg.Web.Listen)
			if err := web.Serve(ctx, cfg.Web.Listen, status); err != nil && ctx.Err() == nil {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
	}

	// Poll at twice the receiver rate so transport buffers never back up.
	ticker := time.NewTicker(pollInterval(cfg.GPS.UpdatePeriod))
	defer ticker.Stop()

	hadFix := false
	for {
		select {
		case <-ctx.Done():
			log.Printf("gpswing stopping")
			return
		case <-ticker.C:
			updated := drv.Update()
			status.MarkUpdate(time.Now().UTC(), updated, drv.LastError())
			if updated {
				status.SetFix(drv.Fix())
			}
			if pin != nil {
				status.SetFixPin(pin.State().String())
			}
			if got := drv.HasFix(); got != hadFix {
				hadFix = got
				if got {
					lat, _ := drv.Latitude()
					lon, _ := drv.Longitude()
					sats, _ := drv.Satellites()
					log.Printf("fix acquired lat=%.5f lon=%.5f sats=%d", lat, lon, sats)
				} else {
					log.Printf("fix lost")
				}
			}
		}
	}
}

// pollInterval halves the receiver update period, floored so a fast receiver
// doesn't turn the loop into a busy spin.
func pollInterval(period time.Duration) time.Duration {
	p := period / 2
	if p < 50*time.Millisecond {
		p = 50 * time.Millisecond
	}
	return p
}
