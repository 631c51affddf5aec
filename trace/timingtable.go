package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TimingTable is the per instruction stage timing written by the
// performance simulator. The first row names the stages.
type TimingTable struct {
	Path   string
	Layout *Layout
	Rows   [][]int64
}

// ReadTimingTable parses a timing CSV. Rows repeating the header are
// skipped.
func ReadTimingTable(in io.Reader) (*TimingTable, error) {
	return readTimingTable(in, "")
}

// ReadTimingTableFile parses the timing CSV stored at path.
func ReadTimingTableFile(path string) (*TimingTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readTimingTable(f, path)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

func readTimingTable(in io.Reader, path string) (*TimingTable, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &LineError{Path: path, Line: 1, Msg: "missing header"}
	}
	if err != nil {
		return nil, csvError(path, err)
	}
	header = trimTrailingEmpty(header)

	layout, err := NewLayout(header)
	if err != nil {
		return nil, &LineError{Path: path, Line: 1, Msg: err.Error()}
	}

	t := &TimingTable{Layout: layout}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		record = trimTrailingEmpty(record)
		line, _ := reader.FieldPos(0)

		if strings.TrimSpace(record[0]) == layout.names[0] {
			continue
		}
		if len(record) < len(layout.names) {
			return nil, &LineError{Path: path, Line: line,
				Msg: fmt.Sprintf("%d columns, header has %d", len(record), len(layout.names))}
		}

		row := make([]int64, len(layout.names))
		for i := range row {
			v, err := strconv.ParseInt(strings.TrimSpace(record[i]), 10, 64)
			if err != nil {
				return nil, &LineError{Path: path, Line: line,
					Msg: fmt.Sprintf("%s %q", layout.names[i], record[i])}
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Columns resolves stage names to column indices.
func (t *TimingTable) Columns(names ...string) ([]int, error) {
	cols := make([]int, len(names))
	for i, n := range names {
		c, found := t.Layout.Index(n)
		if !found {
			return nil, fmt.Errorf("%w: %s not in %v", ErrUnknownStage, n, t.Layout.names)
		}
		cols[i] = c
	}
	return cols, nil
}

func trimTrailingEmpty(record []string) []string {
	for len(record) > 1 && strings.TrimSpace(record[len(record)-1]) == "" {
		record = record[:len(record)-1]
	}
	return record
}

func csvError(path string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &LineError{Path: path, Line: perr.Line, Msg: perr.Err.Error()}
	}
	return err
}
