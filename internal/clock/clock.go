package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Stub freezes the clock at the supplied instant and returns a restore
// function suitable for defer.
func Stub(instant time.Time) func() {
	prev := NowFunc
	NowFunc = func() time.Time { return instant }
	return func() { NowFunc = prev }
}
