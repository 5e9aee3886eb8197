package model

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	c := NewClock(time.Second)
	if c.Tenths() != 10 {
		t.Fatalf("Tenths() = %d, want 10", c.Tenths())
	}

	c.Start()
	time.Sleep(120 * time.Millisecond)
	c.Stop()
	left := c.GetTimeLeft()
	if left >= 900*time.Millisecond || left < 0 {
		t.Errorf("time left after ~120ms = %v", left)
	}
	time.Sleep(50 * time.Millisecond)
	if c.GetTimeLeft() != left {
		t.Error("stopped clock kept running")
	}

	if flagged := NewClock(-time.Second); flagged.Tenths() != 0 {
		t.Errorf("Tenths() of a flagged clock = %d", flagged.Tenths())
	}
	c.Reset()
	if c.GetTimeLeft() != time.Second {
		t.Errorf("Reset gave %v", c.GetTimeLeft())
	}
}
