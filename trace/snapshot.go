package trace

import (
	"fmt"
	"strings"
)

// Layout is the ordered set of stage columns of one timing table. It is
// shared by all snapshots read from that table.
type Layout struct {
	names []string
	index map[string]int
}

// NewLayout creates a layout. Names are trimmed; duplicates and empty names
// are rejected.
func NewLayout(names []string) (*Layout, error) {
	l := &Layout{index: make(map[string]int, len(names))}
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("empty stage name in column %d", i)
		}
		if _, dup := l.index[n]; dup {
			return nil, fmt.Errorf("duplicate stage %s", n)
		}
		l.index[n] = i
		l.names = append(l.names, n)
	}
	return l, nil
}

// Names returns the stage names in column order.
func (l *Layout) Names() []string {
	return l.names
}

// Index returns the column of the named stage.
func (l *Layout) Index(name string) (int, bool) {
	i, found := l.index[name]
	return i, found
}

// Has tells if the layout carries the stage.
func (l *Layout) Has(name string) bool {
	_, found := l.index[name]
	return found
}

// Snapshot is the cumulative cycle count of every stage at one step.
type Snapshot struct {
	layout *Layout
	values []int64
}

// NewSnapshot binds a row of values to a layout.
func NewSnapshot(layout *Layout, values []int64) Snapshot {
	return Snapshot{layout: layout, values: values}
}

// Valid tells if the snapshot holds data.
func (s Snapshot) Valid() bool {
	return s.layout != nil
}

// Get returns the value of the named stage.
func (s Snapshot) Get(name string) (int64, bool) {
	if s.layout == nil {
		return 0, false
	}
	i, found := s.layout.index[name]
	if !found {
		return 0, false
	}
	return s.values[i], true
}

// At returns the value of the column.
func (s Snapshot) At(column int) int64 {
	return s.values[column]
}

// Len returns the number of columns.
func (s Snapshot) Len() int {
	return len(s.values)
}
