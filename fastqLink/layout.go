package fastqLink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/carbocation/pfx"
	simple_util "github.com/liserjrqlxue/simple-util"

	"github.com/liserjrqlxue/FastqLink/sampleSheet"
)

var (
	ErrNoAnalysis           = errors.New("no analysis directory")
	ErrNoSampleSheet        = errors.New("no sample sheet")
	ErrAmbiguousSampleSheet = errors.New("multiple sample sheets")
)

const (
	miseqFastqDir   = "Data/Intensities/BaseCalls"
	nextseqAnalysis = "Analysis"
	sampleSheetName = "SampleSheet.csv"
	sampleSheetGlob = "SampleSheet*.csv"
)

// RunID is the base name of runDir with trailing separators removed.
func RunID(runDir string) string {
	return filepath.Base(filepath.Clean(runDir))
}

// lessVersion orders directory names numerically where both are numbers;
// numbers sort after non-numbers.
func lessVersion(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return false
	case errB == nil:
		return true
	}
	return a < b
}

// LatestAnalysis returns the absolute path of the newest subdirectory of
// runDir/Analysis.
func LatestAnalysis(runDir string) (string, error) {
	var analysis = filepath.Join(runDir, nextseqAnalysis)
	entries, err := os.ReadDir(analysis)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoAnalysis, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNoAnalysis, analysis)
	}
	sort.Slice(names, func(i, j int) bool { return lessVersion(names[i], names[j]) })
	return filepath.Abs(filepath.Join(analysis, names[len(names)-1]))
}

// FastqDir returns the directory holding the FASTQ files of a run.
func FastqDir(seq sampleSheet.Sequencer, runDir string) (string, error) {
	switch seq {
	case sampleSheet.MiSeq:
		return filepath.Join(runDir, filepath.FromSlash(miseqFastqDir)), nil
	case sampleSheet.NextSeq:
		latest, err := LatestAnalysis(runDir)
		if err != nil {
			return "", err
		}
		return filepath.Join(latest, "Data", "fastq"), nil
	}
	return "", sampleSheet.ErrUnknownSequencer
}

// FindSampleSheet locates the sample sheet of a run. MiSeq runs keep a single
// SampleSheet.csv at the top; NextSeq runs are searched in the latest analysis
// Data directory first, then at the top. When several candidates exist the
// first in name order wins, unless strict is set.
func FindSampleSheet(seq sampleSheet.Sequencer, runDir string, strict bool) (string, error) {
	var dirs []string
	switch seq {
	case sampleSheet.MiSeq:
		var path = filepath.Join(runDir, sampleSheetName)
		if !simple_util.FileExists(path) {
			return "", fmt.Errorf("%w: %s", ErrNoSampleSheet, path)
		}
		return path, nil
	case sampleSheet.NextSeq:
		if latest, err := LatestAnalysis(runDir); err == nil {
			dirs = append(dirs, filepath.Join(latest, "Data"))
		}
		dirs = append(dirs, runDir)
	default:
		return "", sampleSheet.ErrUnknownSequencer
	}

	for _, dir := range dirs {
		candidates, err := filepath.Glob(filepath.Join(escapeGlob(dir), sampleSheetGlob))
		if err != nil {
			return "", pfx.Err(err)
		}
		if len(candidates) == 0 {
			continue
		}
		sort.Strings(candidates)
		if strict && len(candidates) > 1 {
			return "", fmt.Errorf("%w: %v", ErrAmbiguousSampleSheet, candidates)
		}
		return candidates[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoSampleSheet, runDir)
}
