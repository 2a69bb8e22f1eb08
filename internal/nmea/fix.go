package nmea

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FixState is the mutable "last known good" fix record, updated in place by
// successfully parsed RMC/GGA sentences.
//
// Every field holds either the value from the most recent sentence that
// carried it, or nothing at all; a sentence that fails checksum or field
// validation never partially updates the record, and a failed parse never
// clears prior data.
type FixState struct {
	latDeg float64
	lonDeg float64
	latOK  bool
	lonOK  bool

	quality   int
	qualityOK bool

	sats   int
	satsOK bool

	hdop   float64
	hdopOK bool

	altM  float64
	altOK bool

	geoidM  float64
	geoidOK bool

	speedKt float64
	speedOK bool

	trackDeg float64
	trackOK  bool

	hour, minute, second, millis int
	clockOK                      bool

	day, month, year int
	dateOK           bool
}

// Apply folds a checksum-validated sentence into the record and reports
// whether anything was updated. Unrecognized sentence types and malformed
// sentences (too few fields) leave the record untouched and are not errors.
func (s *FixState) Apply(sent Sentence) bool {
	switch sent.Type {
	case "RMC":
		return s.applyRMC(sent.Fields)
	case "GGA":
		return s.applyGGA(sent.Fields)
	default:
		return false
	}
}

// RMC: Recommended Minimum Specific GNSS Data
// Fields (NMEA 0183 v2.3):
//
//	0: talker+type
//	1: time (hhmmss.sss)
//	2: status (A=active, V=void)
//	3: latitude (ddmm.mmmm)
//	4: N/S
//	5: longitude (dddmm.mmmm)
//	6: E/W
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
func (s *FixState) applyRMC(f []string) bool {
	if len(f) < 10 {
		return false
	}

	// The receiver clock is trustworthy even before a navigation fix.
	s.applyClock(f[1])
	if dd, mm, yy, ok := parseDate(f[9]); ok {
		s.day, s.month, s.year = dd, mm, yy
		s.dateOK = true
	}

	if strings.TrimSpace(f[2]) != "A" {
		// Void fix: keep the previous navigation data.
		return false
	}

	updated := false
	if lat, ok := parseLatLon(f[3], f[4]); ok {
		s.latDeg = lat
		s.latOK = true
		updated = true
	}
	if lon, ok := parseLatLon(f[5], f[6]); ok {
		s.lonDeg = lon
		s.lonOK = true
		updated = true
	}
	if gs, ok := parseFloat(f[7]); ok {
		s.speedKt = gs
		s.speedOK = true
		updated = true
	}
	if trk, ok := parseFloat(f[8]); ok {
		s.trackDeg = math.Mod(trk+360.0, 360.0)
		s.trackOK = true
		updated = true
	}
	return updated
}

// GGA: Global Positioning System Fix Data
// Fields:
//
//	 0: talker+type
//	 1: time
//	 2: latitude
//	 3: N/S
//	 4: longitude
//	 5: E/W
//	 6: fix quality (0=invalid)
//	 7: number of satellites
//	 8: HDOP
//	 9: altitude (meters)
//	10: units (M)
//	11: geoid height (meters)
//	12: units (M)
func (s *FixState) applyGGA(f []string) bool {
	if len(f) < 11 {
		return false
	}

	updated := false
	s.applyClock(f[1])
	if q, err := strconv.Atoi(strings.TrimSpace(f[6])); err == nil && q >= 0 {
		// Quality 0 is recorded as-is: it means "no fix", and consumers must
		// treat the retained position as stale rather than see it erased.
		s.quality = q
		s.qualityOK = true
		updated = true
	}
	if sats, err := strconv.Atoi(strings.TrimSpace(f[7])); err == nil && sats >= 0 {
		s.sats = sats
		s.satsOK = true
		updated = true
	}
	if hdop, ok := parseFloat(f[8]); ok {
		s.hdop = hdop
		s.hdopOK = true
		updated = true
	}
	if lat, ok := parseLatLon(f[2], f[3]); ok {
		s.latDeg = lat
		s.latOK = true
		updated = true
	}
	if lon, ok := parseLatLon(f[4], f[5]); ok {
		s.lonDeg = lon
		s.lonOK = true
		updated = true
	}
	if altM, ok := parseFloat(f[9]); ok {
		s.altM = altM
		s.altOK = true
		updated = true
	}
	if len(f) >= 12 {
		if geoid, ok := parseFloat(f[11]); ok {
			s.geoidM = geoid
			s.geoidOK = true
			updated = true
		}
	}
	return updated
}

func (s *FixState) applyClock(v string) {
	if hh, mm, ss, ms, ok := parseClock(v); ok {
		s.hour, s.minute, s.second, s.millis = hh, mm, ss, ms
		s.clockOK = true
	}
}

// Latitude returns the last known latitude in signed decimal degrees.
func (s *FixState) Latitude() (float64, bool) { return s.latDeg, s.latOK }

// Longitude returns the last known longitude in signed decimal degrees.
func (s *FixState) Longitude() (float64, bool) { return s.lonDeg, s.lonOK }

// FixQuality returns the GGA fix quality indicator (0=no fix, 1=GPS, 2=DGPS, ...).
func (s *FixState) FixQuality() (int, bool) { return s.quality, s.qualityOK }

// HasFix reports whether the receiver currently claims a satellite fix.
// When false, position fields may still hold stale data from a prior fix.
func (s *FixState) HasFix() bool { return s.qualityOK && s.quality > 0 }

func (s *FixState) Satellites() (int, bool) { return s.sats, s.satsOK }

// AltitudeM returns the antenna altitude above mean sea level in meters.
func (s *FixState) AltitudeM() (float64, bool) { return s.altM, s.altOK }

func (s *FixState) SpeedKnots() (float64, bool) { return s.speedKt, s.speedOK }

// SpeedMPH derives miles per hour from the stored speed on every read.
func (s *FixState) SpeedMPH() (float64, bool) { return s.speedKt * 6076 / 5280, s.speedOK }

// SpeedKPH derives kilometers per hour from the stored speed on every read.
func (s *FixState) SpeedKPH() (float64, bool) { return s.speedKt * 1.852, s.speedOK }

// TrackAngle returns the course over ground in degrees, normalized to [0, 360).
func (s *FixState) TrackAngle() (float64, bool) { return s.trackDeg, s.trackOK }

func (s *FixState) HorizontalDilution() (float64, bool) { return s.hdop, s.hdopOK }

// HeightGeoid returns the geoid separation in meters.
func (s *FixState) HeightGeoid() (float64, bool) { return s.geoidM, s.geoidOK }

// Timestamp combines the RMC date and the most recent time-of-day into a UTC
// timestamp. It is unknown until both have been seen.
func (s *FixState) Timestamp() (time.Time, bool) {
	if !s.clockOK || !s.dateOK {
		return time.Time{}, false
	}
	t := time.Date(s.year, time.Month(s.month), s.day,
		s.hour, s.minute, s.second, s.millis*int(time.Millisecond), time.UTC)
	return t, true
}

// Fix is a read-only snapshot of FixState. Absent fields are nil, never zero.
type Fix struct {
	HasFix       bool     `json:"has_fix"`
	FixQuality   *int     `json:"fix_quality,omitempty"`
	LatDeg       *float64 `json:"lat_deg,omitempty"`
	LonDeg       *float64 `json:"lon_deg,omitempty"`
	Satellites   *int     `json:"satellites,omitempty"`
	HDOP         *float64 `json:"hdop,omitempty"`
	AltitudeM    *float64 `json:"altitude_m,omitempty"`
	GeoidM       *float64 `json:"height_geoid_m,omitempty"`
	SpeedKt      *float64 `json:"speed_kt,omitempty"`
	SpeedMPH     *float64 `json:"speed_mph,omitempty"`
	SpeedKPH     *float64 `json:"speed_kph,omitempty"`
	TrackDeg     *float64 `json:"track_deg,omitempty"`
	TimestampUTC string   `json:"timestamp_utc,omitempty"`
}

// Snapshot copies the record into a Fix. Unit conversions are computed here,
// never stored.
func (s *FixState) Snapshot() Fix {
	out := Fix{HasFix: s.HasFix()}
	if s.qualityOK {
		v := s.quality
		out.FixQuality = &v
	}
	if s.latOK {
		v := s.latDeg
		out.LatDeg = &v
	}
	if s.lonOK {
		v := s.lonDeg
		out.LonDeg = &v
	}
	if s.satsOK {
		v := s.sats
		out.Satellites = &v
	}
	if s.hdopOK {
		v := s.hdop
		out.HDOP = &v
	}
	if s.altOK {
		v := s.altM
		out.AltitudeM = &v
	}
	if s.geoidOK {
		v := s.geoidM
		out.GeoidM = &v
	}
	if s.speedOK {
		kt := s.speedKt
		mph := kt * 6076 / 5280
		kph := kt * 1.852
		out.SpeedKt = &kt
		out.SpeedMPH = &mph
		out.SpeedKPH = &kph
	}
	if s.trackOK {
		v := s.trackDeg
		out.TrackDeg = &v
	}
	if ts, ok := s.Timestamp(); ok {
		out.TimestampUTC = ts.Format(time.RFC3339Nano)
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseLatLon parses NMEA lat/lon in ddmm.mmmm or dddmm.mmmm plus hemisphere.
//
// For latitude (N/S): ddmm.mmmm
// For longitude (E/W): dddmm.mmmm
func parseLatLon(v string, hemi string) (float64, bool) {
	v = strings.TrimSpace(v)
	hemi = strings.TrimSpace(strings.ToUpper(hemi))
	if v == "" || (hemi != "N" && hemi != "S" && hemi != "E" && hemi != "W") {
		return 0, false
	}

	// The last two digits of the integer part are whole minutes.
	dot := strings.IndexByte(v, '.')
	intPart := v
	if dot != -1 {
		intPart = v[:dot]
	}
	if len(intPart) < 3 {
		return 0, false
	}

	degPart := intPart[:len(intPart)-2]
	minPart := v[len(intPart)-2:]

	deg, err := strconv.Atoi(degPart)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.ParseFloat(minPart, 64)
	if err != nil {
		return 0, false
	}

	dec := float64(deg) + (mins / 60.0)
	if hemi == "S" || hemi == "W" {
		dec = -dec
	}
	return dec, true
}

// parseClock parses an NMEA time field (hhmmss or hhmmss.sss).
func parseClock(v string) (hour, minute, second, millis int, ok bool) {
	v = strings.TrimSpace(v)
	if len(v) < 6 {
		return 0, 0, 0, 0, false
	}
	hh, err1 := strconv.Atoi(v[0:2])
	mm, err2 := strconv.Atoi(v[2:4])
	ss, err3 := strconv.Atoi(v[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, 0, false
	}
	// ss==60 allows for a leap second.
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 || ss < 0 || ss > 60 {
		return 0, 0, 0, 0, false
	}
	ms := 0
	if len(v) > 6 && v[6] == '.' {
		if frac, err := strconv.ParseFloat("0"+v[6:], 64); err == nil {
			ms = int(math.Round(frac * 1000))
		}
	}
	return hh, mm, ss, ms, true
}

// parseDate parses an NMEA date field (ddmmyy). Two-digit years map to
// 20yy, with a pivot at 80 so pre-2000 logs (GPS epoch era) stay correct.
func parseDate(v string) (day, month, year int, ok bool) {
	v = strings.TrimSpace(v)
	if len(v) != 6 {
		return 0, 0, 0, false
	}
	dd, err1 := strconv.Atoi(v[0:2])
	mm, err2 := strconv.Atoi(v[2:4])
	yy, err3 := strconv.Atoi(v[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	if dd < 1 || dd > 31 || mm < 1 || mm > 12 || yy < 0 {
		return 0, 0, 0, false
	}
	if yy >= 80 {
		return dd, mm, 1900 + yy, true
	}
	return dd, mm, 2000 + yy, true
}
