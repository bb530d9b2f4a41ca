package fastqLink

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	simple_util "github.com/liserjrqlxue/simple-util"
)

var ErrSameFile = errors.New("source and destination are the same file")

// Status is the outcome of materializing one Entry.
type Status string

const (
	Linked   Status = "linked"
	Copied   Status = "copied"
	Existing Status = "existing"
	Conflict Status = "conflict"
	Failed   Status = "failed"
)

type Result struct {
	Entry
	Status Status
	Err    error
}

type Report struct {
	Results                                    []Result
	Linked, Copied, Existing, Conflict, Failed int
}

func (r *Report) add(entry Entry, status Status, err error) {
	r.Results = append(r.Results, Result{Entry: entry, Status: status, Err: err})
	switch status {
	case Linked:
		r.Linked++
	case Copied:
		r.Copied++
	case Existing:
		r.Existing++
	case Conflict:
		r.Conflict++
	case Failed:
		r.Failed++
	}
}

// Materializer writes Entries to disk as symlinks or copies.
//
// In link mode every entry is attempted: a destination that already links to
// the same source counts as Existing, any other existing destination is a
// Conflict, and other errors are Failed. With Strict the first Failed entry
// stops the batch. In copy mode any error stops the batch.
type Materializer struct {
	Copy   bool
	Strict bool
	Logger *log.Logger
}

func (m *Materializer) logger() *log.Logger {
	if m.Logger == nil {
		return log.Default()
	}
	return m.Logger
}

func (m *Materializer) Mode() string {
	if m.Copy {
		return "copy"
	}
	return "link"
}

func (m *Materializer) Materialize(entries []Entry) (*Report, error) {
	var report = &Report{}
	for _, entry := range entries {
		if m.Copy {
			if err := copyEntry(entry); err != nil {
				report.add(entry, Failed, err)
				return report, err
			}
			report.add(entry, Copied, nil)
			continue
		}

		status, err := linkEntry(entry)
		switch status {
		case Conflict:
			m.logger().Printf("%v. sample_id: %s, file: %s", err, entry.SampleID, entry.Dest)
		case Failed:
			m.logger().Printf("%v. sample_id: %s, files: %s, %s", err, entry.SampleID, entry.Src, entry.Dest)
		}
		report.add(entry, status, err)
		if status == Failed && m.Strict {
			return report, err
		}
	}
	return report, nil
}

func linkEntry(entry Entry) (Status, error) {
	if err := os.MkdirAll(filepath.Dir(entry.Dest), 0755); err != nil {
		return Failed, pfx.Err(err)
	}
	err := os.Symlink(entry.Src, entry.Dest)
	if err == nil {
		return Linked, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return Failed, pfx.Err(err)
	}
	if target, lerr := os.Readlink(entry.Dest); lerr == nil && target == entry.Src {
		return Existing, nil
	}
	return Conflict, err
}

func copyEntry(entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(entry.Dest), 0755); err != nil {
		return pfx.Err(err)
	}
	// never write through a link left by an earlier link-mode run
	if info, err := os.Lstat(entry.Dest); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(entry.Dest); err != nil {
			return pfx.Err(err)
		}
	}
	info, err := os.Stat(entry.Src)
	if err != nil {
		return pfx.Err(err)
	}
	// CopyFile truncates dest before reading src
	if destInfo, err := os.Stat(entry.Dest); err == nil && os.SameFile(info, destInfo) {
		return fmt.Errorf("%w: %s", ErrSameFile, entry.Dest)
	}
	if err := simple_util.CopyFile(entry.Dest, entry.Src); err != nil {
		return pfx.Err(err)
	}
	if err := os.Chmod(entry.Dest, info.Mode().Perm()); err != nil {
		return pfx.Err(err)
	}
	if err := os.Chtimes(entry.Dest, info.ModTime(), info.ModTime()); err != nil {
		return pfx.Err(err)
	}
	return nil
}
