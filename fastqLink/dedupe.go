package fastqLink

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

var ErrDuplicateDest = errors.New("duplicate destination")

// DupPolicy decides what happens when two different sources map to the
// same destination.
type DupPolicy string

const (
	// DupSkip keeps the first entry and drops later ones
	DupSkip DupPolicy = "skip"
	// DupSuffix renames later entries to <stem>_2<ext>, <stem>_3<ext>, ...
	DupSuffix DupPolicy = "suffix"
	// DupError fails the batch
	DupError DupPolicy = "error"
)

func ParseDupPolicy(s string) (DupPolicy, error) {
	switch p := DupPolicy(strings.ToLower(s)); p {
	case DupSkip, DupSuffix, DupError:
		return p, nil
	case "":
		return DupSkip, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q: want skip, suffix or error", s)
}

func splitExt(path string) (stem, ext string) {
	for _, suffix := range []string{".fastq.gz", ".fastq"} {
		if strings.HasSuffix(path, suffix) {
			return strings.TrimSuffix(path, suffix), suffix
		}
	}
	return path, ""
}

// Dedupe removes repeated entries in order. An entry identical to an earlier
// one (same source and destination) is always dropped; a different source
// for a taken destination is handled by policy.
func Dedupe(entries []Entry, policy DupPolicy, logger *log.Logger) ([]Entry, error) {
	if logger == nil {
		logger = log.Default()
	}
	var (
		out   = make([]Entry, 0, len(entries))
		taken = make(map[string]string, len(entries))
		seen  = make(map[[2]string]bool, len(entries))
	)
	for _, entry := range entries {
		// keyed on the destination before any suffix is applied
		var key = [2]string{entry.Src, entry.Dest}
		if seen[key] {
			continue
		}
		seen[key] = true

		src, ok := taken[entry.Dest]
		if !ok {
			taken[entry.Dest] = entry.Src
			out = append(out, entry)
			continue
		}
		if src == entry.Src {
			continue
		}
		switch policy {
		case DupError:
			return nil, fmt.Errorf("%w: %s from %s and %s", ErrDuplicateDest, entry.Dest, src, entry.Src)
		case DupSuffix:
			var stem, ext = splitExt(entry.Dest)
			for n := 2; ; n++ {
				var dest = fmt.Sprintf("%s_%d%s", stem, n, ext)
				if _, ok := taken[dest]; !ok {
					logger.Printf("duplicate destination %s. sample_id: %s, renamed to %s", entry.Dest, entry.SampleID, dest)
					entry.Dest = dest
					break
				}
			}
			taken[entry.Dest] = entry.Src
			out = append(out, entry)
		default:
			logger.Printf("duplicate destination %s. sample_id: %s, skip %s (kept %s)", entry.Dest, entry.SampleID, entry.Src, src)
		}
	}
	return out, nil
}
