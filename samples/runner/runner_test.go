package runner_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/simcmp/comparison"
	"gitlab.com/akita/simcmp/samples/runner"
)

type fakeComparator struct {
	mu      sync.Mutex
	running int32
	peak    int32
	gate    chan struct{}
	fail    map[string]bool
	report  string
	runs    int32
}

func (f *fakeComparator) Run(job comparison.Job) *comparison.Result {
	n := atomic.AddInt32(&f.running, 1)
	f.mu.Lock()
	if n > f.peak {
		f.peak = n
	}
	f.mu.Unlock()
	atomic.AddInt32(&f.runs, 1)

	if f.gate != nil {
		<-f.gate
	}
	atomic.AddInt32(&f.running, -1)

	res := &comparison.Result{
		RunID:      job.Target,
		Job:        job,
		OK:         !f.fail[job.Target],
		ReportPath: f.report,
	}
	if !res.OK {
		res.ErrorKind = comparison.KindPathMissing
	}
	return res
}

func jobs(targets ...string) []comparison.Job {
	out := make([]comparison.Job, len(targets))
	for i, t := range targets {
		out[i] = comparison.Job{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 32, Target: t}
	}
	return out
}

var _ = Describe("Runner", func() {
	It("should return results in job order and keep failures", func() {
		f := &fakeComparator{fail: map[string]bool{"b": true}}
		r := runner.NewRunner(f, 2)

		results, err := r.Run(context.Background(), jobs("a", "b", "c"))

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Job.Target).To(Equal("a"))
		Expect(results[1].OK).To(BeFalse())
		Expect(results[2].OK).To(BeTrue())
		Expect(r.Store().List()).To(HaveLen(3))

		rows := runner.MatrixRows(results)
		Expect(rows[1].Note).To(Equal("PathMissing"))

		finished, _ := r.Tracer().Finished()
		Expect(finished).To(Equal(3))
		Expect(r.Tracer().InFlight()).To(BeEmpty())
	})

	It("should bound the number of concurrent runs", func() {
		f := &fakeComparator{gate: make(chan struct{})}
		r := runner.NewRunner(f, 2)

		done := make(chan struct{})
		go func() {
			defer close(done)
			r.Run(context.Background(), jobs("a", "b", "c", "d"))
		}()

		Eventually(func() int32 { return atomic.LoadInt32(&f.running) }).Should(Equal(int32(2)))
		Consistently(func() int32 { return atomic.LoadInt32(&f.running) }).Should(Equal(int32(2)))
		close(f.gate)
		Eventually(done).Should(BeClosed())
		Expect(f.peak).To(Equal(int32(2)))
	})

	It("should not start runs after cancellation", func() {
		f := &fakeComparator{}
		r := runner.NewRunner(f, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := r.Run(ctx, jobs("a", "b"))

		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(Equal([]*comparison.Result{nil, nil}))
		Expect(runner.MatrixRows(results)).To(BeEmpty())
		Expect(atomic.LoadInt32(&f.runs)).To(BeZero())
	})
})

var _ = Describe("Server", func() {
	var (
		server *httptest.Server
		report string
	)

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "runner")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		report = filepath.Join(dir, "match_a.txt")
		Expect(os.WriteFile(report, []byte("Matching:\n"), 0644)).To(Succeed())

		f := &fakeComparator{report: report}
		r := runner.NewRunner(f, 1)
		_, err = r.Run(context.Background(), jobs("a", "b"))
		Expect(err).NotTo(HaveOccurred())

		server = httptest.NewServer(runner.NewServer(r))
		DeferCleanup(server.Close)
	})

	get := func(path string) *http.Response {
		resp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(resp.Body.Close)
		return resp
	}

	It("should list all results", func() {
		resp := get("/api/results")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var list []map[string]interface{}
		Expect(json.NewDecoder(resp.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(2))
		Expect(list[0]).To(HaveKeyWithValue("run_id", "a"))
	})

	It("should return one result", func() {
		resp := get("/api/results/b")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var res comparison.Result
		Expect(json.NewDecoder(resp.Body).Decode(&res)).To(Succeed())
		Expect(res.Job.Target).To(Equal("b"))
		Expect(res.OK).To(BeTrue())
	})

	It("should serve the match report", func() {
		resp := get("/api/results/a/report")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/plain"))
	})

	It("should answer 404 for unknown runs", func() {
		Expect(get("/api/results/zzz").StatusCode).To(Equal(http.StatusNotFound))
		Expect(get("/api/results/zzz/report").StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should report the status", func() {
		resp := get("/api/status")

		var s map[string]interface{}
		Expect(json.NewDecoder(resp.Body).Decode(&s)).To(Succeed())
		Expect(s).To(HaveKeyWithValue("finished", 2.0))
	})
})

var _ = Describe("Serve", func() {
	It("should expose the runs in flight while the matrix runs", func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		url := "http://" + l.Addr().String()

		f := &fakeComparator{gate: make(chan struct{})}
		r := runner.NewRunner(f, 1)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		finished := make(chan []*comparison.Result, 1)
		served := make(chan error, 1)
		go func() {
			served <- r.Serve(ctx, l, jobs("a", "b"),
				func(results []*comparison.Result, _ error) {
					finished <- results
				})
		}()

		inFlight := func() []interface{} {
			resp, err := http.Get(url + "/api/status")
			if err != nil {
				return nil
			}
			defer resp.Body.Close()

			var s map[string]interface{}
			if json.NewDecoder(resp.Body).Decode(&s) != nil {
				return nil
			}
			list, _ := s["in_flight"].([]interface{})
			return list
		}
		Eventually(inFlight).Should(HaveLen(1))

		close(f.gate)
		var results []*comparison.Result
		Eventually(finished).Should(Receive(&results))
		Expect(results).To(HaveLen(2))
		Expect(inFlight()).To(BeEmpty())

		cancel()
		Eventually(served).Should(Receive(BeNil()))
	})
})
