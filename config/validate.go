package config

import (
	"errors"
	"fmt"

	"gitlab.com/akita/simcmp/comparison"
)

// Validate checks the configuration for values no run could use.
func (c Config) Validate() error {
	if err := c.Paths.Validate(); err != nil {
		return err
	}

	if c.Anchors.Start == "" || c.Anchors.End == "" {
		return errors.New("anchor labels must not be empty")
	}
	if c.Anchors.Start == c.Anchors.End {
		return fmt.Errorf("start and end label are both %q", c.Anchors.Start)
	}

	sel := c.Stages.Selection
	for _, s := range []string{sel.VectorConfig, sel.ShortVector, sel.LongVector, sel.Scalar} {
		if s == "" {
			return errors.New("stage selection has an empty stage")
		}
	}
	if _, err := c.Classifier(); err != nil {
		return err
	}

	if err := c.Candidate.Validate(); err != nil {
		return fmt.Errorf("candidate format: %w", err)
	}

	m := c.Metrics
	switch {
	case m.Threshold < 0:
		return fmt.Errorf("threshold %d is negative", m.Threshold)
	case m.Interval < 0:
		return fmt.Errorf("interval %d is negative", m.Interval)
	case m.TopK < 0:
		return fmt.Errorf("top k %d is negative", m.TopK)
	}

	return c.Matrix.Validate()
}

// Validate checks the matrix dimensions.
func (m MatrixConfig) Validate() error {
	if m.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", m.Workers)
	}

	for _, arch := range m.Archs {
		if !containsString(ValidArchs, arch) {
			return fmt.Errorf("illegal arch %s", arch)
		}
	}
	for _, vlen := range m.VLENs {
		if !containsInt(ValidVLENs, vlen) {
			return fmt.Errorf("illegal VLEN %d", vlen)
		}
	}
	for _, lane := range m.Lanes {
		if lane < 32 || lane&(lane-1) != 0 {
			return fmt.Errorf("illegal lane width %d", lane)
		}
	}
	return nil
}

// LegalLane tells if the lane width can be built for the vector length.
func LegalLane(vlen, lane int) bool {
	max := vlen / 2
	if max < 32 {
		max = 32
	}
	return lane >= 32 && lane <= max
}

// Jobs expands the matrix into jobs, skipping illegal vector length and
// lane width combinations.
func (m MatrixConfig) Jobs() []comparison.Job {
	var jobs []comparison.Job
	for _, arch := range m.Archs {
		for _, vlen := range m.VLENs {
			for _, lane := range m.Lanes {
				if !LegalLane(vlen, lane) {
					continue
				}
				for _, target := range m.Targets {
					jobs = append(jobs, comparison.Job{
						Arch:      arch,
						VLEN:      vlen,
						LaneWidth: lane,
						Target:    target,
					})
				}
			}
		}
	}
	return jobs
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
