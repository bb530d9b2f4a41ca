package fastqLink

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/liserjrqlxue/FastqLink/sampleSheet"
)

// Entry maps one FASTQ file to the place it should be republished.
type Entry struct {
	Src       string
	Dest      string
	SampleID  string
	RunID     string
	Sequencer sampleSheet.Sequencer
}

// Resolver expands selected samples into Entries under OutDir.
type Resolver struct {
	OutDir string
	// Simplify renames destinations to <id>_<read>.fastq[.gz]
	Simplify bool
	// ByRun nests destinations under OutDir/<run id>
	ByRun bool
}

var fastqSuffixes = []string{".fastq", ".fastq.gz"}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SimplifyName rewrites a FASTQ base name to <first token>_<R1|R2|>.fastq[.gz].
func SimplifyName(base string) string {
	var read string
	switch {
	case strings.Contains(base, "_R1_"):
		read = "R1"
	case strings.Contains(base, "_R2_"):
		read = "R2"
	}
	var ext = ".fastq"
	if strings.HasSuffix(base, ".gz") {
		ext += ".gz"
	}
	return SampleIDFromName(base) + "_" + read + ext
}

// SampleIDFromName is the part of a FASTQ base name before the first '_'.
func SampleIDFromName(base string) string {
	return strings.SplitN(base, "_", 2)[0]
}

// Resolve globs <id>_*.fastq and <id>_*.fastq.gz for every sample.
// Samples without files contribute nothing.
func (r *Resolver) Resolve(seq sampleSheet.Sequencer, runDir string, samples []*sampleSheet.Sample) ([]Entry, error) {
	fastqDir, err := FastqDir(seq, runDir)
	if err != nil {
		return nil, err
	}
	var (
		runID   = RunID(runDir)
		destDir = r.OutDir
		entries []Entry
	)
	if r.ByRun {
		destDir = filepath.Join(destDir, runID)
	}

	for _, sample := range samples {
		var id = sample.GlobID(seq)
		if id == "" {
			continue
		}
		for _, suffix := range fastqSuffixes {
			matches, err := filepath.Glob(filepath.Join(escapeGlob(fastqDir), escapeGlob(id)+"_*"+suffix))
			if err != nil {
				return nil, pfx.Err(err)
			}
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil || info.IsDir() {
					continue
				}
				src, err := filepath.Abs(match)
				if err != nil {
					return nil, pfx.Err(err)
				}
				var name = filepath.Base(match)
				if r.Simplify {
					name = SimplifyName(name)
				}
				entries = append(entries, Entry{
					Src:       src,
					Dest:      filepath.Join(destDir, name),
					SampleID:  SampleIDFromName(filepath.Base(match)),
					RunID:     runID,
					Sequencer: seq,
				})
			}
		}
	}
	return entries, nil
}
