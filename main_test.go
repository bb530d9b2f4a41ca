package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liserjrqlxue/FastqLink/fastqLink"
	"github.com/liserjrqlxue/FastqLink/sampleSheet"
)

const (
	miseqRun   = "220101_M00123_0042_000000000-ABCDE"
	nextseqRun = "220102_VH00123_7_AAAB2CDE5"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newRuns lays out a parent dir holding one MiSeq run, one NextSeq run and
// one directory that is not a run
func newRuns(t *testing.T) string {
	t.Helper()
	var parent = filepath.Join(t.TempDir(), "runs")

	var miseq = filepath.Join(parent, miseqRun)
	writeFile(t, filepath.Join(miseq, "SampleSheet.csv"), strings.Join([]string{
		"[Header]",
		"Experiment Name,test",
		"[Data]",
		"Sample_ID,Sample_Name,Sample_Project,Index",
		"S1,,PRJ,ACGT",
		"S2,S2,OTHER,TTTT",
		",,,",
		"",
	}, "\n"))
	var calls = filepath.Join(miseq, "Data", "Intensities", "BaseCalls")
	writeFile(t, filepath.Join(calls, "S1_S1_L001_R1_001.fastq.gz"), "r1")
	writeFile(t, filepath.Join(calls, "S1_S1_L001_R2_001.fastq.gz"), "r2")
	writeFile(t, filepath.Join(calls, "S2_S2_L001_R1_001.fastq.gz"), "r1")

	var nextseq = filepath.Join(parent, nextseqRun)
	require.NoError(t, os.MkdirAll(filepath.Join(nextseq, "Analysis", "1", "Data"), 0755))
	var analysis = filepath.Join(nextseq, "Analysis", "2", "Data")
	writeFile(t, filepath.Join(analysis, "SampleSheet.csv"), strings.Join([]string{
		"[Header],,",
		"FileFormatVersion,2,",
		"[Cloud_Data],,",
		"Sample_ID,ProjectName,LibraryName",
		"N1,PRJ,L1",
		"N2,,L2",
		"[Cloud_Settings],,",
		"",
	}, "\n"))
	writeFile(t, filepath.Join(analysis, "fastq", "N1_S1_L001_R1_001.fastq.gz"), "r1")
	writeFile(t, filepath.Join(analysis, "fastq", "N1_S1_L001_R2_001.fastq.gz"), "r2")
	writeFile(t, filepath.Join(analysis, "fastq", "N2_S2_L001_R1_001.fastq.gz"), "r1")

	require.NoError(t, os.MkdirAll(filepath.Join(parent, "not_a_run"), 0755))
	writeFile(t, filepath.Join(parent, "README.txt"), "")
	return parent
}

func newPipeline(outDir string, buf *bytes.Buffer) *Pipeline {
	return &Pipeline{
		Resolver:     fastqLink.Resolver{OutDir: outDir, Simplify: true},
		Materializer: fastqLink.Materializer{Logger: log.New(buf, "", 0)},
		DupPolicy:    fastqLink.DupSkip,
		Threshold:    2,
	}
}

func TestSingleMiSeqRunLinksPair(t *testing.T) {
	var (
		parent = newRuns(t)
		outDir = filepath.Join(t.TempDir(), "out")
		buf    bytes.Buffer
	)
	info, err := parseInput(filepath.Join(parent, miseqRun)+"/", "", "PRJ", "")
	require.NoError(t, err)

	report, err := newPipeline(outDir, &buf).Run(info)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Linked)

	files, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, name := range []string{"S1_R1.fastq.gz", "S1_R2.fastq.gz"} {
		var dest = filepath.Join(outDir, name)
		info, err := os.Lstat(dest)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)

		target, err := os.Readlink(dest)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(target))
		assert.FileExists(t, target)
	}
}

func TestConfigRunsByProject(t *testing.T) {
	var (
		parent  = newRuns(t)
		dir     = t.TempDir()
		config  = filepath.Join(dir, "config.json")
		outDir  = filepath.Join(dir, "out")
		ledger  = filepath.Join(dir, "ledger.csv")
		summary = filepath.Join(dir, "summary.csv")
		buf     bytes.Buffer
	)
	writeFile(t, config, `{"sequencing_run_parent_dirs": ["`+parent+`", "`+filepath.Join(dir, "missing")+`"]}`)

	info, err := parseInput("", config, "PRJ", "")
	require.NoError(t, err)
	require.Len(t, info.RunDirs, 3)

	var p = newPipeline(outDir, &buf)
	p.Resolver.ByRun = true
	p.Ledger = ledger
	p.Summary = summary
	report, err := p.Run(info)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Linked)

	content, err := os.ReadFile(summary)
	require.NoError(t, err)
	var lines = strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,R1,R2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "S1,"))
	assert.Contains(t, lines[1], miseqRun)
	assert.True(t, strings.HasPrefix(lines[2], "N1,"))
	assert.Contains(t, lines[2], nextseqRun)

	assert.FileExists(t, filepath.Join(outDir, miseqRun, "S1_R1.fastq.gz"))
	assert.FileExists(t, filepath.Join(outDir, nextseqRun, "N1_R2.fastq.gz"))
	assert.NoFileExists(t, filepath.Join(outDir, nextseqRun, "N2_R1.fastq.gz"))

	records, err := fastqLink.ReadLedger(ledger)
	require.NoError(t, err)
	require.Len(t, records, 4)
	var runs = map[string]int{}
	for _, record := range records {
		runs[record.RunID]++
		assert.Equal(t, "link", record.Mode)
		assert.Equal(t, "linked", record.Status)
	}
	assert.Equal(t, map[string]int{miseqRun: 2, nextseqRun: 2}, runs)

	// second pass is a no-op
	report, err = p.Run(info)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Linked)
	assert.Equal(t, 4, report.Existing)
	assert.Empty(t, buf.String())

	records, err = fastqLink.ReadLedger(ledger)
	require.NoError(t, err)
	assert.Len(t, records, 8)
}

func TestIDsFileAcrossRunsCopy(t *testing.T) {
	var (
		parent = newRuns(t)
		dir    = t.TempDir()
		config = filepath.Join(dir, "config.json")
		ids    = filepath.Join(dir, "ids.txt")
		outDir = filepath.Join(dir, "out")
		buf    bytes.Buffer
	)
	writeFile(t, config, `{"sequencing_run_parent_dirs": ["`+parent+`"]}`)
	writeFile(t, ids, "S2\n\n N2 \nnobody\n")

	info, err := parseInput("", config, "", ids)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"S2": true, "N2": true, "nobody": true}, info.Criteria.IDs)

	var p = newPipeline(outDir, &buf)
	p.Materializer.Copy = true
	report, err := p.Run(info)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Copied, "N2 has no project and is not eligible")

	content, err := os.ReadFile(filepath.Join(outDir, "S2_R1.fastq.gz"))
	require.NoError(t, err)
	assert.Equal(t, "r1", string(content))
}

func TestDuplicateDestinationsAcrossRuns(t *testing.T) {
	var (
		parent = filepath.Join(t.TempDir(), "runs")
		outDir = filepath.Join(t.TempDir(), "out")
		buf    bytes.Buffer
	)
	for _, run := range []string{miseqRun, "220201_M00123_0043_000000000-FGHIJ"} {
		writeFile(t, filepath.Join(parent, run, "SampleSheet.csv"), "[Data]\nSample_Name,Sample_Project\nS1,PRJ\n")
		writeFile(t, filepath.Join(parent, run, "Data", "Intensities", "BaseCalls", "S1_S1_L001_R1_001.fastq.gz"), run)
	}
	runDirs, err := listRunDirs(parent)
	require.NoError(t, err)
	var info = Info{RunDirs: runDirs, Criteria: sampleSheet.ByProject("PRJ")}

	var p = newPipeline(outDir, &buf)
	p.DupPolicy = fastqLink.DupSuffix
	report, err := p.Run(info)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Linked)
	assert.FileExists(t, filepath.Join(outDir, "S1_R1.fastq.gz"))
	assert.FileExists(t, filepath.Join(outDir, "S1_R1_2.fastq.gz"))

	target, err := os.Readlink(filepath.Join(outDir, "S1_R1.fastq.gz"))
	require.NoError(t, err)
	assert.Contains(t, target, miseqRun, "first run wins the plain name")

	p.DupPolicy = fastqLink.DupError
	_, err = p.Run(info)
	assert.ErrorIs(t, err, fastqLink.ErrDuplicateDest)
}

func TestStrictSampleSheet(t *testing.T) {
	var (
		parent = filepath.Join(t.TempDir(), nextseqRun)
		buf    bytes.Buffer
	)
	writeFile(t, filepath.Join(parent, "SampleSheet_a.csv"), "[Cloud_Data]\nSampleID,ProjectName\nN1,PRJ\n")
	writeFile(t, filepath.Join(parent, "SampleSheet_b.csv"), "[Cloud_Data]\nSampleID,ProjectName\nN1,PRJ\n")
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "Analysis", "1", "Data", "fastq"), 0755))

	var task = createTask(parent)
	task.RunTask(sampleSheet.ByProject("PRJ"), &newPipeline(t.TempDir(), &buf).Resolver, true)
	assert.True(t, task.Skipped)
	assert.ErrorIs(t, task.Err, fastqLink.ErrAmbiguousSampleSheet)

	task = createTask(parent)
	task.RunTask(sampleSheet.ByProject("PRJ"), &newPipeline(t.TempDir(), &buf).Resolver, false)
	assert.False(t, task.Skipped)
	assert.Equal(t, "SampleSheet_a.csv", filepath.Base(task.SampleSheet))
	assert.Len(t, task.Samples, 1)
	assert.Empty(t, task.Entries)
}

func TestParseInputErrors(t *testing.T) {
	_, err := parseInput("x", "", "", "")
	assert.Error(t, err)

	_, err = parseInput("", "", "PRJ", "")
	assert.Error(t, err)

	var config = filepath.Join(t.TempDir(), "config.json")
	writeFile(t, config, "{not json")
	_, err = parseInput("", config, "PRJ", "")
	assert.Error(t, err)

	_, err = parseInput(t.TempDir(), "", "", filepath.Join(t.TempDir(), "missing_ids.txt"))
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	var config = filepath.Join(t.TempDir(), "config.json")
	writeFile(t, config, `{"sequencing_run_parent_dirs": ["/a", "", "/b"], "other": 1}`)
	parents, err := parseConfig(config)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, parents)
}
