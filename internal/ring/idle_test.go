package ring

import (
	"testing"
	"time"
)

func TestProgressiveIdleStrategy_ResetZeroesCounters(t *testing.T) {
	s := NewProgressiveIdleStrategy()
	for i := 0; i < 50; i++ {
		s.Idle()
	}
	s.Reset()
	if s.spins != 0 || s.sleepCounter != 0 {
		t.Errorf("Reset should zero both counters, got spins=%d sleepCounter=%d", s.spins, s.sleepCounter)
	}
}

func TestProgressiveIdleStrategy_MaxSleepCapsBackoff(t *testing.T) {
	s := NewProgressiveIdleStrategyWithMaxSleep(5 * time.Millisecond)
	if s.maxSleepDuration != 5*time.Millisecond {
		t.Fatalf("maxSleepDuration = %v, want 5ms", s.maxSleepDuration)
	}
	if NewProgressiveIdleStrategyWithMaxSleep(0).maxSleepDuration != time.Millisecond {
		t.Fatal("non-positive maxSleep should default to 1ms")
	}
}

func TestProgressiveIdleStrategy_String(t *testing.T) {
	if NewProgressiveIdleStrategy().String() != "progressive" {
		t.Error("unexpected String()")
	}
}

func TestSleepingIdleStrategy_SpinsBeforeSleeping(t *testing.T) {
	s := NewSleepingIdleStrategy(0, 3)
	for i := 0; i < 3; i++ {
		s.Idle() // spin window; should return promptly
	}
	if s.spins != 3 {
		t.Errorf("spins = %d, want 3", s.spins)
	}
	s.Reset()
	if s.spins != 0 {
		t.Errorf("Reset should zero spins, got %d", s.spins)
	}
}

func TestSleepingIdleStrategy_DefaultsNonPositiveSleep(t *testing.T) {
	s := NewSleepingIdleStrategy(-1, 0)
	if s.sleepFor <= 0 {
		t.Errorf("sleepFor should default to a positive duration, got %v", s.sleepFor)
	}
}
