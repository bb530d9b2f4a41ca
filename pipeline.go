package main

import (
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/liserjrqlxue/FastqLink/fastqLink"
)

// Pipeline resolves runs concurrently, then dedupes and materializes the
// merged entries in run order.
type Pipeline struct {
	Resolver     fastqLink.Resolver
	Materializer fastqLink.Materializer
	DupPolicy    fastqLink.DupPolicy
	Strict       bool
	Threshold    int
	Ledger       string
	Xlsx         string
	Summary      string
}

func (p *Pipeline) runTasks(info Info) []*Task {
	var (
		tasks = make([]*Task, len(info.RunDirs))
		g     errgroup.Group
	)
	if p.Threshold > 0 {
		g.SetLimit(p.Threshold)
	}
	for i, runDir := range info.RunDirs {
		var task = createTask(runDir)
		tasks[i] = task
		g.Go(func() error {
			task.RunTask(info.Criteria, &p.Resolver, p.Strict)
			return nil
		})
	}
	_ = g.Wait()
	return tasks
}

func (p *Pipeline) Run(info Info) (*fastqLink.Report, error) {
	var (
		tasks   = p.runTasks(info)
		entries []fastqLink.Entry
		skipped int
	)
	for _, task := range tasks {
		if task.Skipped {
			skipped++
		}
		entries = append(entries, task.Entries...)
	}
	log.Printf("runs:%d skipped:%d entries:%d", len(tasks), skipped, len(entries))

	entries, err := fastqLink.Dedupe(entries, p.DupPolicy, p.Materializer.Logger)
	if err != nil {
		return nil, err
	}

	report, err := p.Materializer.Materialize(entries)
	if report != nil {
		log.Printf(
			"%s linked:%d copied:%d existing:%d conflict:%d failed:%d",
			p.Materializer.Mode(), report.Linked, report.Copied, report.Existing, report.Conflict, report.Failed,
		)
		if lerr := p.writeLedger(report); lerr != nil && err == nil {
			err = lerr
		}
	}
	return report, err
}

func (p *Pipeline) writeLedger(report *fastqLink.Report) error {
	if p.Summary != "" {
		if err := fastqLink.WriteSummary(p.Summary, fastqLink.Summary(report)); err != nil {
			return err
		}
		log.Printf("summary:%s", p.Summary)
	}
	if p.Ledger == "" && p.Xlsx == "" {
		return nil
	}
	var records = fastqLink.LedgerRecords(report, p.Materializer.Mode(), fastqLink.NewBatch())
	if p.Ledger != "" {
		if err := fastqLink.WriteLedger(p.Ledger, records); err != nil {
			return err
		}
		log.Printf("ledger:%s", p.Ledger)
	}
	if p.Xlsx != "" {
		if err := fastqLink.WriteLedgerXLSX(p.Xlsx, records); err != nil {
			return err
		}
		log.Printf("ledger:%s", p.Xlsx)
	}
	return nil
}
