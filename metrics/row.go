package metrics

import (
	"strings"

	"gitlab.com/akita/simcmp/trace"
)

// Anomaly flags one aligned instruction pair.
type Anomaly uint8

// Anomalies reported per row.
const (
	EncodingMismatch Anomaly = 1 << iota
	MnemonicMismatch
	SignFlip
	OverThreshold
	CandSlower
	CandFaster
)

var markers = []struct {
	flag Anomaly
	text string
}{
	{EncodingMismatch, "(A!)"},
	{MnemonicMismatch, "(I!)"},
	{CandSlower, "(D+!)"},
	{CandFaster, "(D-!)"},
	{OverThreshold, "(DT!)"},
	{SignFlip, "(S!)"},
}

// Has tells if all flags in f are set.
func (a Anomaly) Has(f Anomaly) bool {
	return a&f == f
}

// Divergent tells if the pair diverged: a sign flip or a delta difference
// over the threshold.
func (a Anomaly) Divergent() bool {
	return a&(SignFlip|OverThreshold) != 0
}

// Markers renders the flags as report markers.
func (a Anomaly) Markers() string {
	var parts []string
	for _, m := range markers {
		if a.Has(m.flag) {
			parts = append(parts, m.text)
		}
	}
	return strings.Join(parts, " ")
}

// Row is one aligned instruction pair.
type Row struct {
	Index     int
	RefIndex  int
	CandIndex int
	Ref       trace.Step
	Cand      trace.Step

	DeltaRef  int64
	DeltaCand int64
	Diff      int64
	Anomalies Anomaly
}

// Key orders rows by the size of their delta difference.
func (r Row) Key() int64 {
	return abs(r.Diff)
}

func classify(ref, cand trace.Step, threshold int64) Anomaly {
	var a Anomaly
	if ref.Raw != cand.Raw {
		a |= EncodingMismatch
	}
	if ref.Mnemonic != cand.Mnemonic {
		a |= MnemonicMismatch
	}

	diff := cand.Delta - ref.Delta
	switch {
	case diff > 0:
		a |= CandSlower
	case diff < 0:
		a |= CandFaster
	}
	if abs(diff) > threshold {
		a |= OverThreshold
	}
	if (ref.Delta < 0 && cand.Delta > 0) || (ref.Delta > 0 && cand.Delta < 0) {
		a |= SignFlip
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
