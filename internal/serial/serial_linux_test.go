//go:build linux

package serial

import (
	"testing"
	"time"
)

func TestTimeoutDeciseconds(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want uint8
	}{
		{0, 1},
		{50 * time.Millisecond, 1},
		{3 * time.Second, 30},
		{7 * time.Second, 70},
		{time.Hour, 255},
	}
	for _, c := range cases {
		if got := timeoutDeciseconds(c.d); got != c.want {
			t.Fatalf("timeoutDeciseconds(%v) = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestBaudToUnix_Unsupported(t *testing.T) {
	if _, err := baudToUnix(14400); err == nil {
		t.Fatalf("expected error")
	}
}
