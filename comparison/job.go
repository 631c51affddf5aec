package comparison

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrPathMissing is returned when an input file of a run does not exist.
var ErrPathMissing = errors.New("path missing")

// Job names one configuration of the matrix: an architecture, a vector
// length, a lane width and a target program.
type Job struct {
	Arch      string `json:"arch"`
	VLEN      int    `json:"vlen"`
	LaneWidth int    `json:"lane_width"`
	Target    string `json:"target"`
}

func (j Job) String() string {
	return fmt.Sprintf("%s_zvl%db/vlane%d/%s", j.Arch, j.VLEN, j.LaneWidth, j.Target)
}

// Layout holds path templates. The placeholders {ws}, {comparison},
// {arch}, {vlen}, {lane} and {target} are replaced per job.
type Layout struct {
	Workspace  string
	Comparison string

	RefTrace   string
	CandLog    string
	CandTiming string
	RefDump    string
	CandDump   string
	ReportDir  string
}

// DefaultLayout returns the directory layout of the benchmarking
// workspace. The workspace root is taken from $WS_PATH.
func DefaultLayout() Layout {
	return Layout{
		Workspace:  os.Getenv("WS_PATH"),
		Comparison: "comparison",
		RefTrace:   "{comparison}/verilator/{arch}/zvl{vlen}b/vlane{lane}/{target}_trace.txt",
		CandLog:    "{comparison}/etiss/{arch}/zvl{vlen}b/vlane{lane}/{target}_trace.txt",
		CandTiming: "{comparison}/etiss/{arch}/zvl{vlen}b/vlane{lane}/{target}_timing.csv",
		RefDump:    "{ws}/vicuna2_tinyml_benchmarking/build_from_other/{arch}/zvl{vlen}b/dump/{target}_dump.txt",
		CandDump:   "{ws}/gen_perfsim/target_sw/examples/Vicuna/custom/{arch}/zvl{vlen}b/dump/{target}.dump",
		ReportDir:  "{comparison}",
	}
}

// Validate checks that every template is set.
func (l Layout) Validate() error {
	for name, tmpl := range map[string]string{
		"RefTrace":   l.RefTrace,
		"CandLog":    l.CandLog,
		"CandTiming": l.CandTiming,
		"RefDump":    l.RefDump,
		"CandDump":   l.CandDump,
		"ReportDir":  l.ReportDir,
	} {
		if strings.TrimSpace(tmpl) == "" {
			return fmt.Errorf("path template %s is empty", name)
		}
	}
	return nil
}

// Paths are the concrete files of one job.
type Paths struct {
	RefTrace      string
	RefAnnotated  string
	CandLog       string
	CandAnnotated string
	CandTiming    string
	RefDump       string
	CandDump      string
	ReportDir     string
}

// Expand fills the templates for the job.
func (l Layout) Expand(j Job) Paths {
	r := strings.NewReplacer(
		"{ws}", l.Workspace,
		"{comparison}", l.Comparison,
		"{arch}", j.Arch,
		"{vlen}", strconv.Itoa(j.VLEN),
		"{lane}", strconv.Itoa(j.LaneWidth),
		"{target}", j.Target,
	)

	p := Paths{
		RefTrace:   r.Replace(l.RefTrace),
		CandLog:    r.Replace(l.CandLog),
		CandTiming: r.Replace(l.CandTiming),
		RefDump:    r.Replace(l.RefDump),
		CandDump:   r.Replace(l.CandDump),
		ReportDir:  r.Replace(l.ReportDir),
	}
	p.RefAnnotated = annotatedPath(p.RefTrace)
	p.CandAnnotated = annotatedPath(p.CandLog)
	return p
}

// annotatedPath turns foo_trace.txt into foo_trace_t.txt.
func annotatedPath(path string) string {
	ext := ""
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		ext = path[i:]
		path = path[:i]
	}
	return path + "_t" + ext
}

// Check reports the first input file that does not exist.
func (p Paths) Check() error {
	for _, path := range []string{p.RefDump, p.CandDump, p.RefTrace, p.CandLog, p.CandTiming} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrPathMissing, path)
			}
			return err
		}
	}
	return nil
}
