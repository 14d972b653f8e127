// idle.go: configurable idle strategies for the ring's drain loop
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ring

import (
	"runtime"
	"sync/atomic"
	"time"
)

// IdleStrategy controls CPU usage when the drain loop finds nothing to
// process. Idle is called when a pop found no work; Reset is called as
// soon as work is found again.
type IdleStrategy interface {
	Idle()
	Reset()
	String() string
}

// ProgressiveIdleStrategy hot-spins briefly, then yields occasionally, then
// backs off with increasing sleeps up to a cap. This is the default: it
// keeps flush latency low under steady load while not pinning a core when
// the pipeline is idle.
type ProgressiveIdleStrategy struct {
	spins        int64
	sleepCounter int64

	hotSpinThreshold  int64
	warmSpinThreshold int64
	sleepDuration     time.Duration
	maxSleepDuration  time.Duration
}

// NewProgressiveIdleStrategy builds the default progressive strategy.
func NewProgressiveIdleStrategy() *ProgressiveIdleStrategy {
	return NewProgressiveIdleStrategyWithMaxSleep(time.Millisecond)
}

// NewProgressiveIdleStrategyWithMaxSleep builds a progressive strategy whose
// backed-off sleep is capped at maxSleep instead of the default 1ms, so a
// caller with its own latency budget can bound worst-case idle-wakeup delay.
func NewProgressiveIdleStrategyWithMaxSleep(maxSleep time.Duration) *ProgressiveIdleStrategy {
	if maxSleep <= 0 {
		maxSleep = time.Millisecond
	}
	return &ProgressiveIdleStrategy{
		hotSpinThreshold:  1000,
		warmSpinThreshold: 10000,
		sleepDuration:     time.Microsecond,
		maxSleepDuration:  maxSleep,
	}
}

func (s *ProgressiveIdleStrategy) Idle() {
	spins := atomic.AddInt64(&s.spins, 1)
	switch {
	case spins < s.hotSpinThreshold:
		return
	case spins < s.warmSpinThreshold:
		if spins&7 == 0 {
			runtime.Gosched()
		}
	default:
		sleepCounter := atomic.LoadInt64(&s.sleepCounter)
		shift := sleepCounter / 2
		if shift > 10 {
			shift = 10
		}
		d := s.sleepDuration * time.Duration(int64(1)<<uint(shift))
		if d > s.maxSleepDuration {
			d = s.maxSleepDuration
		}
		time.Sleep(d)
		atomic.AddInt64(&s.sleepCounter, 1)
		atomic.StoreInt64(&s.spins, 0)
	}
}

func (s *ProgressiveIdleStrategy) Reset() {
	atomic.StoreInt64(&s.spins, 0)
	atomic.StoreInt64(&s.sleepCounter, 0)
}

func (s *ProgressiveIdleStrategy) String() string { return "progressive" }

// SleepingIdleStrategy sleeps a fixed duration once idle, with an initial
// spin window. Simpler and more predictable than ProgressiveIdleStrategy at
// the cost of slightly higher idle-wakeup latency.
type SleepingIdleStrategy struct {
	spins    int
	maxSpins int
	sleepFor time.Duration
}

// NewSleepingIdleStrategy builds a strategy that spins maxSpins times then
// sleeps sleepFor.
func NewSleepingIdleStrategy(sleepFor time.Duration, maxSpins int) *SleepingIdleStrategy {
	if sleepFor <= 0 {
		sleepFor = time.Millisecond
	}
	return &SleepingIdleStrategy{maxSpins: maxSpins, sleepFor: sleepFor}
}

func (s *SleepingIdleStrategy) Idle() {
	if s.spins < s.maxSpins {
		s.spins++
		return
	}
	time.Sleep(s.sleepFor)
}

func (s *SleepingIdleStrategy) Reset() { s.spins = 0 }
func (s *SleepingIdleStrategy) String() string { return "sleeping" }
