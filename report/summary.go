package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
)

// SummaryPath returns where the JSON summary of a run is stored, next to
// its match report.
func SummaryPath(matchPath, target string) string {
	return filepath.Join(filepath.Dir(matchPath), fmt.Sprintf("summary_%s.json", target))
}

// WriteJSONFile dumps v as indented JSON.
func WriteJSONFile(path string, v interface{}) error {
	jsonStr, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, jsonStr, 0644)
}

// MatrixRow is one run in the matrix overview.
type MatrixRow struct {
	Arch      string
	VLEN      int
	LaneWidth int
	Target    string

	OK           bool
	CPIRef       float64
	CPICand      float64
	ErrorPercent float64
	AbsSumDiff   int64
	AvgAbsDiff   float64
	Note         string
}

// WriteMatrix renders the overview table of a matrix run.
func WriteMatrix(w io.Writer, rows []MatrixRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Arch", "VLEN", "Lane", "Target", "CPI RTL", "CPI ETISS", "Error %", "ASD", "ADI", "Note",
	})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for _, r := range rows {
		if !r.OK {
			table.Append([]string{
				r.Arch, fmt.Sprint(r.VLEN), fmt.Sprint(r.LaneWidth), r.Target,
				"-", "-", "-", "-", "-", r.Note,
			})
			continue
		}
		table.Append([]string{
			r.Arch, fmt.Sprint(r.VLEN), fmt.Sprint(r.LaneWidth), r.Target,
			fmt.Sprintf("%.4f", r.CPIRef),
			fmt.Sprintf("%.4f", r.CPICand),
			fmt.Sprintf("%+.2f", r.ErrorPercent),
			fmt.Sprint(r.AbsSumDiff),
			fmt.Sprintf("%.4f", r.AvgAbsDiff),
			r.Note,
		})
	}
	table.Render()
}
