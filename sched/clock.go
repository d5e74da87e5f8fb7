package sched

// clock is the tempo authority shared by every channel. It is mutated only
// by set_bpm/sps instructions and read at each conversion, which makes
// tempo changes take effect from the point of mutation onward and never
// retroactively. The scheduler's single-threaded loop serializes all
// access, no locking needed.
type clock struct {
	bpm   float64
	steps float64 // steps-per-second subdivision, 1 when unconfigured
}

// secondsPerTact converts one tact to wall-clock seconds at the current
// tempo.
func (c clock) secondsPerTact() float64 {
	spb := 60 / c.bpm
	if c.steps > 0 {
		return spb / c.steps
	}
	return spb
}
