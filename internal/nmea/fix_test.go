package nmea

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func mustApply(t *testing.T, s *FixState, payload string) bool {
	t.Helper()
	line := nmeaLine(payload)
	if !ValidChecksum(line) {
		t.Fatalf("test sentence failed checksum: %q", line)
	}
	sent, err := Split(line)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	return s.Apply(sent)
}

const goldenRMC = "GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"

func TestFixState_GoldenRMC(t *testing.T) {
	var st FixState
	if !mustApply(t, &st, goldenRMC) {
		t.Fatalf("expected update")
	}

	lat, ok := st.Latitude()
	if !ok || math.Abs(lat-48.1173) > 1e-4 {
		t.Fatalf("latitude: got %v ok=%v", lat, ok)
	}
	lon, ok := st.Longitude()
	if !ok || math.Abs(lon-11.5167) > 1e-4 {
		t.Fatalf("longitude: got %v ok=%v", lon, ok)
	}
	gs, ok := st.SpeedKnots()
	if !ok || math.Abs(gs-22.4) > 1e-6 {
		t.Fatalf("speed: got %v ok=%v", gs, ok)
	}
	trk, ok := st.TrackAngle()
	if !ok || math.Abs(trk-84.4) > 1e-6 {
		t.Fatalf("track: got %v ok=%v", trk, ok)
	}
	ts, ok := st.Timestamp()
	if !ok {
		t.Fatalf("expected timestamp")
	}
	want := time.Date(1994, time.March, 23, 12, 35, 19, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("timestamp: got %v want %v", ts, want)
	}
}

func TestFixState_Idempotent(t *testing.T) {
	var st FixState
	mustApply(t, &st, goldenRMC)
	first := st.Snapshot()
	mustApply(t, &st, goldenRMC)
	second := st.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-feeding the same sentence drifted state:\n  first:  %+v\n  second: %+v", first, second)
	}
}

func TestFixState_GGAEmptyAltitudeKeepsPrior(t *testing.T) {
	var st FixState
	mustApply(t, &st, "GNGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
	alt, ok := st.AltitudeM()
	if !ok || math.Abs(alt-545.4) > 1e-6 {
		t.Fatalf("altitude: got %v ok=%v", alt, ok)
	}

	// Same position, empty altitude field: lat/lon refresh, altitude survives.
	if !mustApply(t, &st, "GNGGA,123619,4807.038,N,01131.000,E,1,08,0.9,,M,46.9,M,,") {
		t.Fatalf("expected update")
	}
	alt, ok = st.AltitudeM()
	if !ok || math.Abs(alt-545.4) > 1e-6 {
		t.Fatalf("altitude after empty field: got %v ok=%v", alt, ok)
	}
	if _, ok := st.Latitude(); !ok {
		t.Fatalf("expected latitude")
	}
}

func TestFixState_UnrecognizedTypeUntouched(t *testing.T) {
	var st FixState
	mustApply(t, &st, goldenRMC)
	before := st.Snapshot()
	if mustApply(t, &st, "GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00") {
		t.Fatalf("GSV must not report an update")
	}
	if !reflect.DeepEqual(before, st.Snapshot()) {
		t.Fatalf("GSV mutated fix state")
	}
}

func TestFixState_VoidRMCKeepsNavigation(t *testing.T) {
	var st FixState
	mustApply(t, &st, goldenRMC)
	if mustApply(t, &st, "GPRMC,130000,V,,,,,,,230394,003.1,W") {
		t.Fatalf("void RMC must not report an update")
	}
	lat, ok := st.Latitude()
	if !ok || math.Abs(lat-48.1173) > 1e-4 {
		t.Fatalf("latitude lost after void RMC: got %v ok=%v", lat, ok)
	}
	// The clock still advances: the receiver time is valid without a fix.
	ts, ok := st.Timestamp()
	if !ok || ts.Hour() != 13 {
		t.Fatalf("timestamp: got %v ok=%v", ts, ok)
	}
}

func TestFixState_TooFewFieldsRejected(t *testing.T) {
	var st FixState
	if mustApply(t, &st, "GPRMC,123519,A,4807.038,N") {
		t.Fatalf("truncated RMC must be rejected")
	}
	if mustApply(t, &st, "GPGGA,123519,4807.038,N,01131.000,E,1,08") {
		t.Fatalf("truncated GGA must be rejected")
	}
	if !reflect.DeepEqual(st.Snapshot(), Fix{}) {
		t.Fatalf("rejected sentences mutated fix state: %+v", st.Snapshot())
	}
}

func TestFixState_NoFixQualityZero(t *testing.T) {
	var st FixState
	mustApply(t, &st, "GNGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
	if !st.HasFix() {
		t.Fatalf("expected fix")
	}

	// Fix lost: quality goes to 0, position is retained but flagged stale.
	mustApply(t, &st, "GNGGA,123719,,,,,0,00,,,M,,M,,")
	if st.HasFix() {
		t.Fatalf("expected no fix")
	}
	if q, ok := st.FixQuality(); !ok || q != 0 {
		t.Fatalf("fix quality: got %v ok=%v", q, ok)
	}
	if lat, ok := st.Latitude(); !ok || math.Abs(lat-48.1173) > 1e-4 {
		t.Fatalf("stale latitude erased: got %v ok=%v", lat, ok)
	}
}

func TestFixState_GeoidHeight(t *testing.T) {
	var st FixState
	mustApply(t, &st, "GNGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
	g, ok := st.HeightGeoid()
	if !ok || math.Abs(g-46.9) > 1e-6 {
		t.Fatalf("geoid height: got %v ok=%v", g, ok)
	}
	if h, ok := st.HorizontalDilution(); !ok || math.Abs(h-0.9) > 1e-6 {
		t.Fatalf("hdop: got %v ok=%v", h, ok)
	}
	if n, ok := st.Satellites(); !ok || n != 8 {
		t.Fatalf("satellites: got %v ok=%v", n, ok)
	}
}

func TestFixState_SpeedConversions(t *testing.T) {
	var st FixState
	mustApply(t, &st, "GPRMC,123519,A,4807.038,N,01131.000,E,10.0,084.4,230394,003.1,W")

	mph, ok := st.SpeedMPH()
	if !ok || math.Abs(mph-11.5076) > 1e-3 {
		t.Fatalf("mph: got %v ok=%v", mph, ok)
	}
	kph, ok := st.SpeedKPH()
	if !ok || math.Abs(kph-18.52) > 1e-9 {
		t.Fatalf("kph: got %v ok=%v", kph, ok)
	}

	snap := st.Snapshot()
	if snap.SpeedMPH == nil || math.Abs(*snap.SpeedMPH-mph) > 1e-12 {
		t.Fatalf("snapshot mph mismatch: %+v", snap.SpeedMPH)
	}
}

func TestFixState_UnknownAccessors(t *testing.T) {
	var st FixState
	if _, ok := st.Latitude(); ok {
		t.Fatalf("fresh state must report latitude unknown")
	}
	if st.HasFix() {
		t.Fatalf("fresh state must report no fix")
	}
	if _, ok := st.Timestamp(); ok {
		t.Fatalf("fresh state must report timestamp unknown")
	}
	if _, ok := st.SpeedMPH(); ok {
		t.Fatalf("fresh state must report speed unknown")
	}
}
