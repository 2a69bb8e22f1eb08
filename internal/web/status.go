package web

import (
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"gpswing/internal/nmea"
)

// Status collects what the daemon knows for the /api/status endpoint. All
// setters store immutable snapshots, so readers never see a torn value.
type Status struct {
	startUnixNano int64
	updatesTotal  uint64
	lastUpdNano   int64

	device  atomic.Value // string
	baud    atomic.Value // int
	period  atomic.Value // string
	fix     atomic.Value // nmea.Fix
	fixPin  atomic.Value // string
	lastErr atomic.Value // string
}

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.device.Store("")
	s.baud.Store(0)
	s.period.Store("")
	s.fix.Store(nmea.Fix{})
	s.fixPin.Store("")
	s.lastErr.Store("")
	return s
}

func (s *Status) SetStatic(device string, baud int, period time.Duration) {
	s.device.Store(device)
	s.baud.Store(baud)
	s.period.Store(period.String())
}

// MarkUpdate records the outcome of one polling cycle.
func (s *Status) MarkUpdate(nowUTC time.Time, updated bool, lastErr string) {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	if updated {
		atomic.AddUint64(&s.updatesTotal, 1)
		atomic.StoreInt64(&s.lastUpdNano, nowUTC.UnixNano())
	}
	s.lastErr.Store(lastErr)
}

func (s *Status) SetFix(fix nmea.Fix) {
	s.fix.Store(fix)
}

func (s *Status) SetFixPin(state string) {
	s.fixPin.Store(state)
}

type StatusSnapshot struct {
	Service     string `json:"service"`
	NowUTC      string `json:"now_utc"`
	UptimeSec   int64  `json:"uptime_sec"`
	UptimeHuman string `json:"uptime_human"`

	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`
	Period string `json:"update_period,omitempty"`

	Fix     nmea.Fix `json:"fix"`
	FixPin  string   `json:"fix_pin,omitempty"`
	LastFix string   `json:"last_fix_update_utc,omitempty"`
	Updates uint64   `json:"fix_updates_total"`
	LastErr string   `json:"last_error,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	snap := StatusSnapshot{
		Service:     "gpswing",
		NowUTC:      nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec:   int64(nowUTC.Sub(start).Seconds()),
		UptimeHuman: humanize.RelTime(start, nowUTC, "", ""),
		Device:      s.device.Load().(string),
		Baud:        s.baud.Load().(int),
		Period:      s.period.Load().(string),
		Fix:         s.fix.Load().(nmea.Fix),
		FixPin:      s.fixPin.Load().(string),
		Updates:     atomic.LoadUint64(&s.updatesTotal),
		LastErr:     s.lastErr.Load().(string),
	}
	if last := atomic.LoadInt64(&s.lastUpdNano); last != 0 {
		snap.LastFix = time.Unix(0, last).UTC().Format(time.RFC3339Nano)
	}
	return snap
}
