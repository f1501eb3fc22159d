package anim

import "testing"

func TestClockLoops(t *testing.T) {
	c := NewClock(3)
	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, c.Advance())
	}
	want := []int{1, 2, 0, 1, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", got, want)
		}
	}

	c.Reset()
	if c.Tick() != 0 {
		t.Errorf("Tick after Reset = %d", c.Tick())
	}
}

func TestClockZeroDuration(t *testing.T) {
	c := NewClock(0)
	for i := 0; i < 3; i++ {
		if tick := c.Advance(); tick != 0 {
			t.Fatalf("static clock advanced to %d", tick)
		}
	}
}
