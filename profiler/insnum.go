// Package profiler collects per run statistics that are not part of the
// comparison itself: phase wall times and the instruction mix of the
// compared window.
package profiler

import (
	"sort"

	"gitlab.com/akita/simcmp/metrics"
	"gitlab.com/akita/simcmp/timing/stage"
)

// ClassFeature accumulates the timing of all instructions of one class.
type ClassFeature struct {
	Insts_num    uint64  `json:"insts_num"`
	Divergent    uint64  `json:"divergent"`
	RefCycles    int64   `json:"ref_cycles"`
	CandCycles   int64   `json:"cand_cycles"`
	AbsDiff      int64   `json:"abs_diff"`
	AvgRefDelta  float64 `json:"avg_ref_delta"`
	AvgCandDelta float64 `json:"avg_cand_delta"`
}

// MnemonicCount is the number of occurrences of one mnemonic.
type MnemonicCount struct {
	Mnemonic string `json:"mnemonic"`
	Count    uint64 `json:"count"`
}

// InstsProfiler counts the compared instructions by latency class and by
// mnemonic.
type InstsProfiler struct {
	Insts_num uint64                   `json:"insts_num"`
	Classes   map[string]*ClassFeature `json:"classes"`
	mnemonics map[string]uint64

	classifier *stage.Classifier
}

// NewInstsProfiler creates a profiler using the classifier.
func NewInstsProfiler(classifier *stage.Classifier) *InstsProfiler {
	return &InstsProfiler{
		Classes:    make(map[string]*ClassFeature),
		mnemonics:  make(map[string]uint64),
		classifier: classifier,
	}
}

// Collect records one aligned row. The candidate mnemonic decides the
// class, as it does for the stage choice.
func (insts *InstsProfiler) Collect(row metrics.Row) {
	insts.Insts_num++
	insts.mnemonics[row.Cand.Mnemonic]++

	name := insts.classifier.Classify(row.Cand.Mnemonic).String()
	feature, found := insts.Classes[name]
	if !found {
		feature = &ClassFeature{}
		insts.Classes[name] = feature
	}

	feature.Insts_num++
	feature.RefCycles += row.DeltaRef
	feature.CandCycles += row.DeltaCand
	if row.Diff < 0 {
		feature.AbsDiff -= row.Diff
	} else {
		feature.AbsDiff += row.Diff
	}
	if row.Anomalies.Divergent() {
		feature.Divergent++
	}
	feature.AvgRefDelta = float64(feature.RefCycles) / float64(feature.Insts_num)
	feature.AvgCandDelta = float64(feature.CandCycles) / float64(feature.Insts_num)
}

// CollectAll records every row of a result.
func (insts *InstsProfiler) CollectAll(r *metrics.Result) {
	for _, row := range r.Rows {
		insts.Collect(row)
	}
}

// Top returns the n most frequent mnemonics, ties broken by name.
func (insts *InstsProfiler) Top(n int) []MnemonicCount {
	out := make([]MnemonicCount, 0, len(insts.mnemonics))
	for m, c := range insts.mnemonics {
		out = append(out, MnemonicCount{Mnemonic: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mnemonic < out[j].Mnemonic
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
