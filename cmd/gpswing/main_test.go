package main

import (
	"testing"
	"time"
)

func TestPollInterval(t *testing.T) {
	cases := []struct {
		period time.Duration
		want   time.Duration
	}{
		{time.Second, 500 * time.Millisecond},
		{2 * time.Second, time.Second},
		{250 * time.Millisecond, 125 * time.Millisecond},
		{60 * time.Millisecond, 50 * time.Millisecond},
	}
	for _, c := range cases {
		if got := pollInterval(c.period); got != c.want {
			t.Fatalf("pollInterval(%v) = %v, want %v", c.period, got, c.want)
		}
	}
}
