package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	logs "github.com/danmuck/smplog"
)

// Checker pushes discovered files through decode, inspect and report, one at a time.
type Checker struct {
	Decoder Decoder
	Clock   ReferenceClock
	Out     io.Writer // receives one verdict line per file
}

// NewChecker returns a Checker writing verdict lines to out. A nil clock
// falls back to the system clock.
func NewChecker(dec Decoder, clock ReferenceClock, out io.Writer) *Checker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Checker{Decoder: dec, Clock: clock, Out: out}
}

// Summary tallies the verdicts of a run.
type Summary struct {
	Verdicts []Verdict
	Counts   map[Status]int
}

func (s Summary) Total() int { return len(s.Verdicts) }

// Run checks every candidate in order and prints a verdict line for each.
// Per-file failures become verdicts; only context cancellation stops the
// batch early, between files.
func (c *Checker) Run(ctx context.Context, candidates []Candidate) (Summary, error) {
	summary := Summary{
		Verdicts: make([]Verdict, 0, len(candidates)),
		Counts:   make(map[Status]int),
	}
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var v Verdict
		if cand.Archive {
			v = c.CheckArchive(ctx, cand.Path)
		} else {
			v = c.CheckFile(ctx, cand.Path)
		}
		if _, err := fmt.Fprintln(c.Out, v.Line()); err != nil {
			return summary, fmt.Errorf("failed to write verdict: %w", err)
		}
		summary.Verdicts = append(summary.Verdicts, v)
		summary.Counts[v.Status]++
	}
	return summary, nil
}

// CheckFile decodes and inspects a standalone profile.
func (c *Checker) CheckFile(ctx context.Context, path string) Verdict {
	return c.checkProfile(ctx, path, path)
}

// CheckArchive extracts the embedded profile from an .ipa into a scratch
// directory, checks it under the label "<archive>!<entry>", then removes the
// scratch directory.
func (c *Checker) CheckArchive(ctx context.Context, archivePath string) Verdict {
	scratch, err := os.MkdirTemp("", "provcheck-ipa-")
	if err != nil {
		return Verdict{Path: archivePath, Status: StatusExtractError, Detail: err.Error()}
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logs.Warnf("failed to remove scratch dir %s: %v", scratch, err)
		}
	}()

	extracted, entry, err := ExtractEmbedded(archivePath, scratch)
	if errors.Is(err, ErrNoEmbeddedProfile) {
		return Verdict{Path: archivePath, Status: StatusNoEmbedded}
	}
	if err != nil {
		return Verdict{Path: archivePath, Status: StatusExtractError, Detail: err.Error()}
	}
	return c.checkProfile(ctx, extracted, archivePath+"!"+entry)
}

// checkProfile runs the pipeline for the profile at inputPath. The decoded
// artifact sits next to the input and is removed on every return path.
func (c *Checker) checkProfile(ctx context.Context, inputPath, label string) Verdict {
	artifact := inputPath + DecodedSuffix
	defer removeArtifact(artifact)

	if err := c.Decoder.Decode(ctx, inputPath, artifact); err != nil {
		var de *DecodeError
		if errors.As(err, &de) && de.Diagnostic != "" {
			logs.Warnf("Error decoding %s: %s", label, de.Diagnostic)
		} else {
			logs.Warnf("Error decoding %s: %v", label, err)
		}
		return Verdict{Path: label, Status: StatusDecodeFailed}
	}

	expiration, err := Inspect(artifact)
	if errors.Is(err, ErrNoExpirationDate) {
		return Verdict{Path: label, Status: StatusMissingField}
	}
	if err != nil {
		return Verdict{Path: label, Status: StatusParseError, Detail: err.Error()}
	}

	return Evaluate(label, expiration, c.Clock())
}

// removeArtifact deletes a decoded artifact if present. Failures are logged
// and never stop the batch.
func removeArtifact(path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return
	}
	logs.Warnf("failed to remove %s: %v", path, err)
}
