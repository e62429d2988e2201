package internal

import "time"

// Clock supplies the reference instant for time-dependent rules (future
// timestamp checks, previous-week windows). It is injected everywhere so the
// services stay deterministic under test.
type Clock func() time.Time

func RealClock() Clock { return time.Now }
