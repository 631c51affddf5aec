package profiler

import (
	"time"
)

// WallTime measures the wall clock time of named phases of one run.
type WallTime struct {
	starttimes map[string]time.Time
	order      []string
	Phases     map[string]float64 `json:"phases"`
}

// NewWallTime creates an empty timer.
func NewWallTime() *WallTime {
	return &WallTime{
		starttimes: make(map[string]time.Time),
		Phases:     make(map[string]float64),
	}
}

// InitStartWallTime starts timing a phase.
func (walltime *WallTime) InitStartWallTime(flag string) {
	_, found := walltime.starttimes[flag]
	if found {
		panic("one flag can only have one walltime")
	}
	walltime.starttimes[flag] = time.Now()
}

// GetIntervalWallTime stops timing a phase and returns its duration in
// seconds. Repeated phases accumulate.
func (walltime *WallTime) GetIntervalWallTime(flag string) float64 {
	startTime, found := walltime.starttimes[flag]
	if !found {
		panic("init walltime should be called before")
	}
	executetime := time.Since(startTime).Seconds()
	delete(walltime.starttimes, flag)

	if _, seen := walltime.Phases[flag]; !seen {
		walltime.order = append(walltime.order, flag)
	}
	walltime.Phases[flag] += executetime
	return executetime
}

// Measure times f as the named phase.
func (walltime *WallTime) Measure(flag string, f func() error) error {
	walltime.InitStartWallTime(flag)
	defer walltime.GetIntervalWallTime(flag)
	return f()
}

// Order returns the phase names in the order they first finished.
func (walltime *WallTime) Order() []string {
	return walltime.order
}

// Total returns the summed duration of all finished phases.
func (walltime *WallTime) Total() float64 {
	sum := 0.0
	for _, t := range walltime.Phases {
		sum += t
	}
	return sum
}
