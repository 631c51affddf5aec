// Package config loads the TOML configuration of the comparison tools.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"

	"gitlab.com/akita/simcmp/comparison"
	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/metrics"
	"gitlab.com/akita/simcmp/timing/stage"
	"gitlab.com/akita/simcmp/trace"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// AnchorsConfig names the labels delimiting the compared region.
type AnchorsConfig struct {
	Start string
	End   string
}

// StagesConfig selects the commit stage per class and the report columns.
// Empty member lists keep the built in classification.
type StagesConfig struct {
	Selection stage.Selection
	Printed   []string

	VsetInsts  []string `toml:",omitempty"`
	LongInsts  []string `toml:",omitempty"`
	ShortInsts []string `toml:",omitempty"`
}

// ReportConfig selects the optional report content.
type ReportConfig struct {
	Initial  bool
	Trailing bool
	Annotate bool
	JSON     bool
	Verbose  bool
}

// MatrixConfig lists the configurations a matrix run covers.
type MatrixConfig struct {
	Archs   []string
	VLENs   []int
	Lanes   []int
	Targets []string
	Workers int
}

// Config is the complete configuration.
type Config struct {
	Paths     comparison.Layout
	Anchors   AnchorsConfig
	Stages    StagesConfig
	Candidate trace.CandidateFormat
	Metrics   metrics.Options
	Report    ReportConfig
	Matrix    MatrixConfig
}

// Legal architectures and vector lengths of the processor.
var (
	ValidArchs = []string{"rv32im_zve32x", "rv32imf_zve32f"}
	ValidVLENs = []int{64, 128, 256, 512, 1024}
)

// Defaults returns the built in configuration.
func Defaults() Config {
	return Config{
		Paths: comparison.DefaultLayout(),
		Anchors: AnchorsConfig{
			Start: disasm.DefaultStartLabel,
			End:   disasm.DefaultEndLabel,
		},
		Stages: StagesConfig{
			Selection: stage.DefaultSelection(),
			Printed:   append([]string(nil), stage.Printed...),
		},
		Candidate: trace.DefaultCandidateFormat(),
		Metrics:   metrics.DefaultOptions(),
		Report: ReportConfig{
			Annotate: true,
			JSON:     true,
		},
		Matrix: MatrixConfig{
			Archs:   []string{"rv32im_zve32x"},
			VLENs:   append([]int(nil), ValidVLENs...),
			Lanes:   []int{32},
			Targets: []string{"toycar_int8"},
			Workers: 4,
		},
	}
}

// Load decodes the file into cfg. Keys not in the file keep their value.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = Decode(bufio.NewReader(f), cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// Decode reads TOML from r into cfg.
func Decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(r).Decode(cfg)
}

// Dump writes cfg as TOML. The class tables are written out in full, so
// the dump shows the classifier the configuration builds.
func Dump(w io.Writer, cfg Config) error {
	classifier, err := cfg.Classifier()
	if err != nil {
		return err
	}
	cfg.Stages.VsetInsts = classifier.Members(stage.VectorConfig)
	cfg.Stages.LongInsts = classifier.Members(stage.LongVectorSignal)
	cfg.Stages.ShortInsts = classifier.Members(stage.ShortVectorSignal)

	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Classifier builds the classifier the configuration asks for.
func (c Config) Classifier() (*stage.Classifier, error) {
	s := c.Stages
	if len(s.VsetInsts) == 0 && len(s.LongInsts) == 0 && len(s.ShortInsts) == 0 {
		return stage.Default(), nil
	}

	vset, long, short := s.VsetInsts, s.LongInsts, s.ShortInsts
	if vset == nil {
		vset = stage.VsetInsts
	}
	if long == nil {
		long = stage.LongVectorInsts
	}
	if short == nil {
		short = stage.ShortVectorInsts
	}
	return stage.NewClassifier(vset, long, short)
}
