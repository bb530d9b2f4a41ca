package main

import (
	"flag"
	"log"
	"os"

	simple_util "github.com/liserjrqlxue/simple-util"

	"github.com/liserjrqlxue/FastqLink/fastqLink"
)

var (
	runDir = flag.String(
		"runDir",
		"",
		"single run directory",
	)
	config = flag.String(
		"config",
		"",
		"json config with sequencing_run_parent_dirs, every subdir is a run",
	)
	project = flag.String(
		"project",
		"",
		"select samples of project",
	)
	ids = flag.String(
		"ids",
		"",
		"select samples listed in file, one id per line",
	)
	outDir = flag.String(
		"outdir",
		".",
		"output dir",
	)
	simplify = flag.Bool(
		"simplify",
		false,
		"rename to <sampleID>_<R1|R2>.fastq[.gz]",
	)
	copyMode = flag.Bool(
		"copy",
		false,
		"copy files instead of symlink",
	)
	byRun = flag.Bool(
		"byRun",
		false,
		"output to outdir/<runID>/",
	)
	strict = flag.Bool(
		"strict",
		false,
		"fail on ambiguous sample sheet or link error",
	)
	dup = flag.String(
		"dup",
		"skip",
		"duplicate destination policy:[skip|suffix|error]",
	)
	threshold = flag.Int(
		"threshold",
		12,
		"max runs resolved in parallel",
	)
	logFile = flag.String(
		"log",
		"",
		"output log file, default stderr",
	)
	ledger = flag.String(
		"ledger",
		"",
		"append link ledger to csv",
	)
	xlsx = flag.String(
		"xlsx",
		"",
		"write link ledger to xlsx",
	)
	summary = flag.String(
		"summary",
		"",
		"write per-library ID,R1,R2 csv",
	)
)

func main() {
	flag.Parse()
	if (*project == "" && *ids == "") || (*runDir == "" && *config == "") {
		flag.Usage()
		log.Printf("-project or -ids, and -runDir or -config required")
		os.Exit(0)
	}

	if *logFile != "" {
		logF, err := os.Create(*logFile)
		simple_util.CheckErr(err)
		defer simple_util.DeferClose(logF)
		log.SetOutput(logF)
		log.Printf("Log file:%v\n", *logFile)
	}
	log.SetFlags(log.Ldate | log.Ltime)

	dupPolicy, err := fastqLink.ParseDupPolicy(*dup)
	simple_util.CheckErr(err)

	info, err := parseInput(*runDir, *config, *project, *ids)
	simple_util.CheckErr(err)
	simple_util.CheckErr(os.MkdirAll(*outDir, 0755))

	var pipeline = &Pipeline{
		Resolver: fastqLink.Resolver{
			OutDir:   *outDir,
			Simplify: *simplify,
			ByRun:    *byRun,
		},
		Materializer: fastqLink.Materializer{
			Copy:   *copyMode,
			Strict: *strict,
			Logger: log.Default(),
		},
		DupPolicy: dupPolicy,
		Strict:    *strict,
		Threshold: *threshold,
		Ledger:    *ledger,
		Xlsx:      *xlsx,
		Summary:   *summary,
	}
	_, err = pipeline.Run(info)
	simple_util.CheckErr(err)
}
