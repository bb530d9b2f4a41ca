package main

import (
	"log"

	"github.com/liserjrqlxue/FastqLink/fastqLink"
	"github.com/liserjrqlxue/FastqLink/sampleSheet"
)

// Task resolves the FASTQ files of one run.
type Task struct {
	RunDir      string
	RunID       string
	Sequencer   sampleSheet.Sequencer
	SampleSheet string
	Samples     []*sampleSheet.Sample
	Entries     []fastqLink.Entry
	Skipped     bool
	Err         error
}

func createTask(runDir string) *Task {
	var runID = fastqLink.RunID(runDir)
	return &Task{
		RunDir:    runDir,
		RunID:     runID,
		Sequencer: sampleSheet.Classify(runID),
	}
}

// RunTask fills Samples and Entries. A run that cannot be handled is marked
// Skipped with Err set; it never fails the batch.
func (task *Task) RunTask(criteria sampleSheet.Criteria, resolver *fastqLink.Resolver, strict bool) {
	if task.Sequencer == sampleSheet.Unknown {
		task.Skipped = true
		log.Printf("Task[%s] skip: unknown sequencer", task.RunID)
		return
	}

	var err error
	task.SampleSheet, err = fastqLink.FindSampleSheet(task.Sequencer, task.RunDir, strict)
	if err != nil {
		task.skip(err)
		return
	}
	samples, err := sampleSheet.ParseFile(task.Sequencer, task.SampleSheet)
	if err != nil {
		task.skip(err)
		return
	}
	task.Samples = sampleSheet.Select(task.Sequencer, samples, criteria)
	if len(task.Samples) == 0 {
		log.Printf("Task[%s:%s] no sample selected from %d", task.RunID, task.Sequencer, len(samples))
		return
	}

	task.Entries, err = resolver.Resolve(task.Sequencer, task.RunDir, task.Samples)
	if err != nil {
		task.skip(err)
		return
	}
	log.Printf("Task[%s:%s] %d samples -> %d fastq", task.RunID, task.Sequencer, len(task.Samples), len(task.Entries))
}

func (task *Task) skip(err error) {
	task.Skipped = true
	task.Err = err
	task.Entries = nil
	log.Printf("Task[%s:%s] skip: %v", task.RunID, task.Sequencer, err)
}
