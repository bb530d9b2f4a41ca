package sampleSheet

import "errors"

var ErrUnknownSequencer = errors.New("unknown sequencer")

// Eligible reports whether sample carries the identifying fields needed to
// find its FASTQ files. For MiSeq a missing sample_name is backfilled from
// sample_id before the check.
func Eligible(seq Sequencer, sample *Sample) bool {
	switch seq {
	case MiSeq:
		var named = sample.nonEmpty(KeySampleName)
		if !named && sample.nonEmpty(KeySampleID) {
			sample.Set(KeySampleName, sample.Value(KeySampleID))
			named = true
		}
		return named && sample.nonEmpty(KeySampleProject)
	case NextSeq:
		return sample.nonEmpty(KeySampleID) && sample.nonEmpty(KeyProjectName)
	}
	return false
}

// Criteria picks samples either by project or by a set of sample ids.
// A non-empty Project takes precedence over IDs.
type Criteria struct {
	Project string
	IDs     map[string]bool
}

func ByProject(project string) Criteria {
	return Criteria{Project: project}
}

func ByIDs(ids []string) Criteria {
	var c = Criteria{IDs: make(map[string]bool, len(ids))}
	for _, id := range ids {
		c.IDs[id] = true
	}
	return c
}

// Match reports whether an eligible sample satisfies c.
func (c Criteria) Match(seq Sequencer, sample *Sample) bool {
	if c.Project != "" {
		return sample.Project(seq) == c.Project
	}
	if c.IDs[sample.Value(KeySampleID)] {
		return true
	}
	return seq == MiSeq && c.IDs[sample.Value(KeySampleName)]
}

// Select keeps the eligible samples matching c, in input order.
func Select(seq Sequencer, samples []*Sample, c Criteria) (selected []*Sample) {
	for _, sample := range samples {
		if Eligible(seq, sample) && c.Match(seq, sample) {
			selected = append(selected, sample)
		}
	}
	return
}
