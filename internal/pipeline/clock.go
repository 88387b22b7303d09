package pipeline

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// runClock stamps Stats.StartedAt and Stats.FinishedAt. FinishedAt is also
// the generated_at header of a published metafile.
var runClock = clockwork.NewRealClock()

// SetClock replaces the clock used to stamp runs; nil restores wall time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	runClock = c
}

func now() time.Time {
	return runClock.Now()
}
