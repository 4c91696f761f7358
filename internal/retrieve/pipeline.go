// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/s28672/pbio/internal/report"
	"github.com/s28672/pbio/pkg/types"
)

// Searcher resolves a taxonomic ID to GenBank record ids.
type Searcher interface {
	Search(ctx context.Context, taxid string, maxRecords int) ([]string, error)
}

// StopReason says how far a pipeline run got.
type StopReason int

const (
	// Reported means records matched and the reports were attempted.
	Reported StopReason = iota
	// NoIDs means the search returned nothing or failed.
	NoIDs
	// FetchFailed means every fetch attempt failed or returned no records.
	FetchFailed
	// NoMatch means records were fetched but none passed the length filter.
	NoMatch
)

func (r StopReason) String() string {
	switch r {
	case Reported:
		return "reported"
	case NoIDs:
		return "no ids"
	case FetchFailed:
		return "fetch failed"
	case NoMatch:
		return "no match"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// RunResult summarizes a pipeline run.
type RunResult struct {
	Stop StopReason

	// Cause is the error behind NoIDs or FetchFailed, if any.
	Cause error

	IDs     []string
	Fetched []types.SequenceRecord
	Matched []types.SequenceRecord

	CSVErr     error
	ChartErr   error
	SummaryErr error
}

// Pipeline wires the retrieval stages together. W receives the progress
// lines; it must not be nil.
type Pipeline struct {
	Searcher Searcher
	Fetcher  Fetcher
	Policy   RetryPolicy
	W        io.Writer
}

// Run searches (unless ids is non-nil), fetches, filters and writes the
// reports named in cfg.Report. Expected stops such as an empty search or a
// failed fetch are reported on W and in RunResult.Stop, not as an error.
// Run returns an error only when ctx is cancelled or the config is invalid.
func (p *Pipeline) Run(ctx context.Context, cfg types.RetrievalConfig, ids []string) (RunResult, error) {
	var res RunResult
	if err := cfg.Range.Validate(); err != nil {
		return res, fmt.Errorf("invalid length range: %w", err)
	}

	if ids == nil {
		fmt.Fprintf(p.W, "Searching GenBank for taxid: %s\n", cfg.TaxID)
		found, err := p.Searcher.Search(ctx, cfg.TaxID, cfg.MaxRecords)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			fmt.Fprintf(p.W, "Error searching GenBank: %v\n", err)
			res.Cause = err
		}
		ids = found
	}
	res.IDs = ids

	if len(ids) == 0 {
		fmt.Fprintln(p.W, "No records found.")
		res.Stop = NoIDs
		return res, nil
	}

	fmt.Fprintf(p.W, "Found %d records. Fetching data...\n", len(ids))
	fetched, err := FetchWithRetry(ctx, p.Fetcher, ids, p.Policy, p.W)
	if err != nil && !errors.Is(err, ErrRetriesExhausted) {
		return res, err
	}
	res.Fetched = fetched.Records
	if len(fetched.Records) == 0 {
		fmt.Fprintln(p.W, "Failed to fetch records.")
		res.Stop = FetchFailed
		res.Cause = err
		return res, nil
	}

	fmt.Fprintf(p.W, "Retrieved %d records. Filtering by length...\n", len(fetched.Records))
	res.Matched = FilterByLength(fetched.Records, cfg.Range)
	if len(res.Matched) == 0 {
		fmt.Fprintf(p.W, "No records match the length criteria (%s).\n", cfg.Range)
		res.Stop = NoMatch
		return res, nil
	}
	fmt.Fprintf(p.W, "%d records match the length criteria.\n", len(res.Matched))

	res.Stop = Reported
	p.writeReports(cfg, &res)
	return res, nil
}

// writeReports is best effort: a failing report is printed and recorded,
// and the remaining reports are still written.
func (p *Pipeline) writeReports(cfg types.RetrievalConfig, res *RunResult) {
	rc := cfg.Report

	if rc.CSVPath != "" {
		if err := report.WriteCSV(rc.CSVPath, res.Matched); err != nil {
			res.CSVErr = err
			fmt.Fprintf(p.W, "Error generating CSV report: %v\n", err)
		} else {
			fmt.Fprintf(p.W, "CSV report saved to %s\n", rc.CSVPath)
		}
	}

	if rc.ChartPath != "" {
		opts := report.ChartOptions{Width: rc.ChartWidth, Height: rc.ChartHeight}
		if err := report.WriteChart(rc.ChartPath, res.Matched, opts); err != nil {
			res.ChartErr = err
			fmt.Fprintf(p.W, "Error generating visualization: %v\n", err)
		} else {
			fmt.Fprintf(p.W, "Visualization saved to %s\n", rc.ChartPath)
		}
	}

	if rc.SummaryPath != "" {
		s := report.Summary{
			TaxID:   cfg.TaxID,
			Range:   cfg.Range,
			Found:   len(res.IDs),
			Fetched: len(res.Fetched),
			Records: res.Matched,
		}
		if err := report.WriteSummary(rc.SummaryPath, s); err != nil {
			res.SummaryErr = err
			fmt.Fprintf(p.W, "Error generating summary: %v\n", err)
		} else {
			fmt.Fprintf(p.W, "Summary saved to %s\n", rc.SummaryPath)
		}
	}
}
