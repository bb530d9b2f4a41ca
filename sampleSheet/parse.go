package sampleSheet

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/carbocation/pfx"
	simple_util "github.com/liserjrqlxue/simple-util"
)

// section markers, case-sensitive
const (
	sectionData          = "[Data]"
	sectionCloudData     = "[Cloud_Data]"
	sectionCloudSettings = "[Cloud_Settings]"
)

var (
	capWord  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerCap = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// CamelToSnake converts mixed-case header keys, SampleIDNumber -> sample_id_number.
func CamelToSnake(name string) string {
	name = capWord.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(lowerCap.ReplaceAllString(name, "${1}_${2}"))
}

func newScanner(r io.Reader) *bufio.Scanner {
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return scanner
}

func scanErr(scanner *bufio.Scanner) error {
	if err := scanner.Err(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func allEmpty(fields []string) bool {
	for _, field := range fields {
		if field != "" {
			return false
		}
	}
	return true
}

// ParseMiSeq reads the [Data] table of a MiSeq sample sheet.
// Values beyond the header are dropped and missing trailing values are left
// absent from the Sample.
func ParseMiSeq(r io.Reader) ([]*Sample, error) {
	var (
		samples []*Sample
		scanner = newScanner(r)
		found   bool
	)
	for scanner.Scan() {
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), sectionData) {
			found = true
			break
		}
	}
	if !found || !scanner.Scan() {
		return samples, scanErr(scanner)
	}

	var header = strings.Split(strings.TrimSpace(scanner.Text()), ",")
	for i := range header {
		header[i] = strings.ToLower(header[i])
	}

	for scanner.Scan() {
		var values = strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if allEmpty(values) {
			continue
		}
		var sample = NewSample()
		for i, value := range values {
			if i >= len(header) {
				break
			}
			sample.Set(header[i], value)
		}
		samples = append(samples, sample)
	}
	return samples, scanErr(scanner)
}

// ParseNextSeq reads the [Cloud_Data] table of a NextSeq sample sheet. Header
// keys are converted to snake_case and short rows are filled with "".
func ParseNextSeq(r io.Reader) ([]*Sample, error) {
	var (
		samples []*Sample
		lines   []string
		scanner = newScanner(r)
	)
	for scanner.Scan() {
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), sectionCloudData) {
			for scanner.Scan() {
				var line = strings.TrimRight(strings.TrimSpace(scanner.Text()), ",")
				if strings.HasPrefix(line, sectionCloudSettings) || line == "" {
					break
				}
				lines = append(lines, line)
			}
			break
		}
	}
	if err := scanErr(scanner); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return samples, nil
	}

	var keys = strings.Split(lines[0], ",")
	for i := range keys {
		keys[i] = CamelToSnake(keys[i])
	}
	for _, line := range lines[1:] {
		var values = strings.Split(line, ",")
		if allEmpty(values) {
			continue
		}
		var sample = NewSample()
		for i, key := range keys {
			if i < len(values) {
				sample.Set(key, values[i])
			} else {
				sample.Set(key, "")
			}
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// Parse dispatches to the parser of seq.
func Parse(seq Sequencer, r io.Reader) ([]*Sample, error) {
	switch seq {
	case MiSeq:
		return ParseMiSeq(r)
	case NextSeq:
		return ParseNextSeq(r)
	}
	return nil, ErrUnknownSequencer
}

// ParseFile opens path and parses it as a sample sheet of seq.
func ParseFile(seq Sequencer, path string) ([]*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer simple_util.DeferClose(f)
	return Parse(seq, f)
}
