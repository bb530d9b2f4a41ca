package main

import "github.com/liserjrqlxue/FastqLink/sampleSheet"

// Info is what a batch works on: the runs to scan and which samples to take.
type Info struct {
	RunDirs  []string
	Criteria sampleSheet.Criteria
}
