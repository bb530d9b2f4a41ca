package fastqLink

import (
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	simple_util "github.com/liserjrqlxue/simple-util"
	"github.com/xuri/excelize/v2"
)

// LedgerRecord is one line of the ledger, keyed by run_id so that runs can be
// joined against their QC results.
type LedgerRecord struct {
	RunID     string `csv:"run_id"`
	Sequencer string `csv:"sequencer"`
	SampleID  string `csv:"sample_id"`
	Src       string `csv:"src"`
	Dest      string `csv:"dest"`
	Mode      string `csv:"mode"`
	Status    string `csv:"status"`
	Batch     string `csv:"batch"`
}

var ledgerHeader = []string{"run_id", "sequencer", "sample_id", "src", "dest", "mode", "status", "batch"}

func (r *LedgerRecord) row() []interface{} {
	return []interface{}{r.RunID, r.Sequencer, r.SampleID, r.Src, r.Dest, r.Mode, r.Status, r.Batch}
}

// NewBatch returns an id shared by all records of one invocation.
func NewBatch() string {
	return uuid.NewString()
}

// LedgerRecords flattens a Report.
func LedgerRecords(report *Report, mode, batch string) []*LedgerRecord {
	var records = make([]*LedgerRecord, 0, len(report.Results))
	for _, result := range report.Results {
		records = append(records, &LedgerRecord{
			RunID:     result.RunID,
			Sequencer: result.Sequencer.String(),
			SampleID:  result.SampleID,
			Src:       result.Src,
			Dest:      result.Dest,
			Mode:      mode,
			Status:    string(result.Status),
			Batch:     batch,
		})
	}
	return records
}

// WriteLedger writes records as CSV to path, appending below an existing
// non-empty ledger.
func WriteLedger(path string, records []*LedgerRecord) error {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return pfx.Err(err)
		}
		defer simple_util.DeferClose(f)
		if err := gocsv.MarshalWithoutHeaders(&records, f); err != nil {
			return pfx.Err(err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer simple_util.DeferClose(f)
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func ReadLedger(path string) ([]*LedgerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer simple_util.DeferClose(f)

	var records []*LedgerRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, pfx.Err(err)
	}
	return records, nil
}

// WriteLedgerXLSX writes records to the first sheet of a new workbook.
func WriteLedgerXLSX(path string, records []*LedgerRecord) error {
	var (
		f     = excelize.NewFile()
		sheet = "Sheet1"
	)
	defer simple_util.DeferClose(f)

	for i, h := range ledgerHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return pfx.Err(err)
		}
	}
	for r, record := range records {
		for c, v := range record.row() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return pfx.Err(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// SummaryRecord is one library per row: sample id and the source path of
// each read. The source path carries the run id.
type SummaryRecord struct {
	ID string `csv:"ID"`
	R1 string `csv:"R1"`
	R2 string `csv:"R2"`
}

// Summary groups the published files of a Report by run and sample, in
// report order. Conflicts and failures are left out.
func Summary(report *Report) []*SummaryRecord {
	var (
		records []*SummaryRecord
		index   = make(map[[2]string]*SummaryRecord)
	)
	for _, result := range report.Results {
		switch result.Status {
		case Linked, Copied, Existing:
		default:
			continue
		}
		var key = [2]string{result.RunID, result.SampleID}
		record, ok := index[key]
		if !ok {
			record = &SummaryRecord{ID: result.SampleID}
			index[key] = record
			records = append(records, record)
		}
		switch SimplifyName(filepath.Base(result.Src)) {
		case result.SampleID + "_R1.fastq", result.SampleID + "_R1.fastq.gz":
			record.R1 = result.Src
		case result.SampleID + "_R2.fastq", result.SampleID + "_R2.fastq.gz":
			record.R2 = result.Src
		}
	}
	return records
}

// WriteSummary writes records as CSV to path.
func WriteSummary(path string, records []*SummaryRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer simple_util.DeferClose(f)
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return pfx.Err(err)
	}
	return nil
}
