package sampleSheet

import "regexp"

// Sequencer is the instrument family a run was produced by.
type Sequencer string

const (
	Unknown Sequencer = ""
	MiSeq   Sequencer = "miseq"
	NextSeq Sequencer = "nextseq"
)

// run id patterns, anchored at the start only
var (
	miseqRunID   = regexp.MustCompile(`^\d{6}_M\d{5}_\d{4}_\d{9}-[A-Z0-9]{5}`)
	nextseqRunID = regexp.MustCompile(`^\d{6}_VH\d{5}_\d+_[A-Z0-9]{9}`)
)

// Classify maps a run id (the run directory's base name) to its Sequencer.
// Unknown means the run should be skipped.
func Classify(runID string) Sequencer {
	switch {
	case miseqRunID.MatchString(runID):
		return MiSeq
	case nextseqRunID.MatchString(runID):
		return NextSeq
	}
	return Unknown
}

func (s Sequencer) String() string {
	if s == Unknown {
		return "unknown"
	}
	return string(s)
}
