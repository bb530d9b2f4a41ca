package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/liserjrqlxue/goUtil/textUtil"
	"github.com/tidwall/gjson"

	"github.com/liserjrqlxue/FastqLink/sampleSheet"
)

// parseConfig returns sequencing_run_parent_dirs of a JSON config
func parseConfig(config string) ([]string, error) {
	data, err := os.ReadFile(config)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if !gjson.ValidBytes(data) {
		return nil, pfx.Err(fmt.Errorf("invalid json: %s", config))
	}
	var parents []string
	for _, dir := range gjson.GetBytes(data, "sequencing_run_parent_dirs").Array() {
		if dir.String() != "" {
			parents = append(parents, dir.String())
		}
	}
	return parents, nil
}

// parseIDs reads one sample id per line, blank lines ignored
func parseIDs(ids string) ([]string, error) {
	if _, err := os.Stat(ids); err != nil {
		return nil, pfx.Err(err)
	}
	var list []string
	for _, line := range textUtil.File2Array(ids) {
		if id := strings.TrimSpace(line); id != "" {
			list = append(list, id)
		}
	}
	return list, nil
}

// listRunDirs treats every immediate subdirectory of parent as a run
func listRunDirs(parent string) ([]string, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, pfx.Err(err)
	}
	var runDirs []string
	for _, entry := range entries {
		var path = filepath.Join(parent, entry.Name())
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, pfx.Err(err)
			}
			runDirs = append(runDirs, abs)
		}
	}
	sort.Strings(runDirs)
	return runDirs, nil
}

func parseInput(runDir, config, project, ids string) (info Info, err error) {
	switch {
	case project != "":
		info.Criteria = sampleSheet.ByProject(project)
	case ids != "":
		list, err := parseIDs(ids)
		if err != nil {
			return info, err
		}
		info.Criteria = sampleSheet.ByIDs(list)
	default:
		return info, fmt.Errorf("one of -project or -ids is required")
	}

	if runDir != "" {
		abs, err := filepath.Abs(runDir)
		if err != nil {
			return info, pfx.Err(err)
		}
		info.RunDirs = append(info.RunDirs, abs)
	}
	if config != "" {
		parents, err := parseConfig(config)
		if err != nil {
			return info, err
		}
		for _, parent := range parents {
			runDirs, err := listRunDirs(parent)
			if err != nil {
				log.Printf("skip run parent dir %s: %v", parent, err)
				continue
			}
			info.RunDirs = append(info.RunDirs, runDirs...)
		}
	}
	if len(info.RunDirs) == 0 {
		return info, fmt.Errorf("no run directory: -runDir or -config required")
	}
	return info, nil
}
