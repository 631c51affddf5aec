package runner

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"gitlab.com/akita/simcmp/comparison"
)

type resultSummary struct {
	RunID           string               `json:"run_id"`
	Job             comparison.Job       `json:"job"`
	OK              bool                 `json:"ok"`
	ErrorKind       comparison.ErrorKind `json:"error_kind,omitempty"`
	CPIErrorPercent float64              `json:"cpi_error_percent"`
}

type status struct {
	InFlight []comparison.Job `json:"in_flight"`
	Finished int              `json:"finished"`
	WallTime float64          `json:"walltime"`
}

// NewServer creates the HTTP handler exposing the results of the runner.
func NewServer(r *Runner) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/results", func(w http.ResponseWriter, _ *http.Request) {
		list := r.store.List()
		summaries := make([]resultSummary, len(list))
		for i, res := range list {
			summaries[i] = resultSummary{
				RunID:           res.RunID,
				Job:             res.Job,
				OK:              res.OK,
				ErrorKind:       res.ErrorKind,
				CPIErrorPercent: res.CPIErrorPercent,
			}
		}
		writeJSON(w, summaries)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/results/{id}", func(w http.ResponseWriter, req *http.Request) {
		res, found := r.store.Get(mux.Vars(req)["id"])
		if !found {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, res)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/results/{id}/report", func(w http.ResponseWriter, req *http.Request) {
		res, found := r.store.Get(mux.Vars(req)["id"])
		if !found || res.ReportPath == "" {
			http.NotFound(w, req)
			return
		}

		content, err := os.ReadFile(res.ReportPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(content)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		finished, walltime := r.tracer.Finished()
		writeJSON(w, status{
			InFlight: r.tracer.InFlight(),
			Finished: finished,
			WallTime: walltime,
		})
	}).Methods(http.MethodGet)

	return router
}

// Serve serves the results on l while the jobs run, so clients can watch
// the runs in flight. finished is called once the matrix completes. Serve
// returns when ctx is done or the listener fails.
func (r *Runner) Serve(
	ctx context.Context,
	l net.Listener,
	jobs []comparison.Job,
	finished func([]*comparison.Result, error),
) error {
	srv := &http.Server{Handler: NewServer(r)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := srv.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		results, err := r.Run(gctx, jobs)
		if finished != nil {
			finished(results, err)
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	jsonStr, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonStr); err != nil {
		log.Printf("(Server) write response: %v", err)
	}
}
