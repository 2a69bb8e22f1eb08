package serial

import "testing"

func TestSupportedBaud(t *testing.T) {
	for _, b := range []int{4800, 9600, 19200, 38400, 57600, 115200} {
		if !SupportedBaud(b) {
			t.Fatalf("expected %d supported", b)
		}
	}
	for _, b := range []int{0, -9600, 300, 14400, 921600} {
		if SupportedBaud(b) {
			t.Fatalf("expected %d unsupported", b)
		}
	}
}
