package runner

import (
	"sort"
	"sync"
	"time"

	"gitlab.com/akita/simcmp/comparison"
)

type inflightRun struct {
	job       comparison.Job
	startTime time.Time
}

// RunTracer records when the runs of a matrix start and finish.
type RunTracer struct {
	mu sync.Mutex

	nextID   int
	inflight map[int]inflightRun

	runExecTime  []float64
	runStartTime []time.Time
	runJobs      []comparison.Job
}

func newRunTracer() *RunTracer {
	return &RunTracer{
		inflight: map[int]inflightRun{},
	}
}

// StartRun marks a run as started and returns its handle.
func (t *RunTracer) StartRun(job comparison.Job) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.inflight[id] = inflightRun{job: job, startTime: time.Now()}
	return id
}

// EndRun marks the run as finished.
func (t *RunTracer) EndRun(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, found := t.inflight[id]
	if !found {
		return
	}
	delete(t.inflight, id)

	t.runExecTime = append(t.runExecTime, time.Since(data.startTime).Seconds())
	t.runStartTime = append(t.runStartTime, data.startTime)
	t.runJobs = append(t.runJobs, data.job)
}

// InFlight returns the jobs currently running, oldest first.
func (t *RunTracer) InFlight() []comparison.Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int, 0, len(t.inflight))
	for id := range t.inflight {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	jobs := make([]comparison.Job, len(ids))
	for i, id := range ids {
		jobs[i] = t.inflight[id].job
	}
	return jobs
}

// Finished returns the number of finished runs and their summed wall time.
func (t *RunTracer) Finished() (int, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sum := 0.0
	for _, e := range t.runExecTime {
		sum += e
	}
	return len(t.runExecTime), sum
}
