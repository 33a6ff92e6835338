package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"

	"github.com/danmuck/provcheck/cmd/internal/logcfg"
	"github.com/danmuck/provcheck/src/profile"
	logs "github.com/danmuck/smplog"
)

func main() {
	logs.Configure(logcfg.Load())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, nil)
	stop()
	os.Exit(code)
}

// run executes one batch and returns the process exit code: 0 once the batch
// completes whatever the verdicts, 1 on a configuration error. dec overrides
// the configured decoder when non-nil.
func run(ctx context.Context, args []string, out io.Writer, dec profile.Decoder) int {
	cfg, err := resolveConfig(args)
	if errors.Is(err, errHelp) {
		printUsage(out)
		return 0
	}
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n\n", err)
		printUsage(out)
		return 1
	}
	pc := cfg.Profile

	candidates, err := profile.Discover(pc.Directory, pc.Extension, pc.ScanArchives, pc.Sort)
	if errors.Is(err, profile.ErrDirectoryNotFound) {
		fmt.Fprintf(out, "Error: Directory '%s' not found.\n", pc.Directory)
		return 1
	}
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}

	if dec == nil {
		dec, err = profile.NewDecoder(pc.Decoder, pc.DecodeTimeout.Duration)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
	}
	clock, err := profile.ClockFromConfig(pc)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}

	logs.Debugf("run(%s): %d candidate(s), decoder=%s", pc.Directory, len(candidates), pc.Decoder)
	checker := profile.NewChecker(dec, clock, out)
	summary, err := checker.Run(ctx, candidates)
	if err != nil {
		logs.Warnf("batch stopped after %d of %d file(s): %v", summary.Total(), len(candidates), err)
	}
	if pc.Verbose {
		printSummary(summary)
	}
	return 0
}

func printSummary(summary profile.Summary) {
	logs.Titlef("\nSummary\n")
	logs.DataKV("Files checked", strconv.Itoa(summary.Total()))

	statuses := make([]string, 0, len(summary.Counts))
	for status := range summary.Counts {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		logs.DataKV(status, strconv.Itoa(summary.Counts[profile.Status(status)]))
	}
}
