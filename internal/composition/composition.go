// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package composition computes nucleotide composition statistics and prints
// them for the console.
package composition

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/s28672/pbio/pkg/types"
)

// Compute removes every occurrence of marker from sequence and returns the
// composition of what is left. Only uppercase A, C, G and T are counted, but
// every remaining character counts toward TotalLength. An empty remainder
// yields zero stats; check Empty before printing them.
func Compute(sequence, marker string) types.CompositionStats {
	pure := sequence
	if marker != "" {
		pure = strings.ReplaceAll(sequence, marker, "")
	}

	var counts types.BaseCounts
	for i := 0; i < len(pure); i++ {
		switch pure[i] {
		case 'A':
			counts.A++
		case 'C':
			counts.C++
		case 'G':
			counts.G++
		case 'T':
			counts.T++
		}
	}

	stats := types.CompositionStats{
		Counts:      counts,
		TotalLength: utf8.RuneCountInString(pure),
	}
	if stats.TotalLength == 0 {
		return stats
	}

	total := float64(stats.TotalLength)
	pct := func(n int) float64 { return float64(n) / total * 100 }
	stats.A = pct(counts.A)
	stats.C = pct(counts.C)
	stats.G = pct(counts.G)
	stats.T = pct(counts.T)
	stats.CGPercent = pct(counts.C + counts.G)
	if at := counts.A + counts.T; at > 0 {
		stats.CGATRatio = float64(counts.C+counts.G) / float64(at)
	}
	return stats
}

// Format writes the per-base percentages, %CG and the CG/AT ratio, one per
// line.
func Format(w io.Writer, s types.CompositionStats) {
	fmt.Fprintf(w, "A: %.1f%%\n", s.A)
	fmt.Fprintf(w, "C: %.1f%%\n", s.C)
	fmt.Fprintf(w, "G: %.1f%%\n", s.G)
	fmt.Fprintf(w, "T: %.1f%%\n", s.T)
	fmt.Fprintf(w, "%%CG: %.1f\n", s.CGPercent)
	fmt.Fprintf(w, "CG/AT ratio: %.2f\n", s.CGATRatio)
}

// Row is one line of a FormatTable listing.
type Row struct {
	ID    string                 `json:"id"`
	Stats types.CompositionStats `json:"stats"`
}

// FormatTable writes rows as a human-readable table to w.
func FormatTable(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-30s  %10s  %6s  %6s  %6s  %6s  %6s  %s\n",
		"ID", "Length", "A%", "C%", "G%", "T%", "%CG", "CG/AT")
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for _, r := range rows {
		id := r.ID
		if len(id) > 30 {
			id = id[:27] + "..."
		}
		s := r.Stats
		fmt.Fprintf(w, "%-30s  %10d  %6.1f  %6.1f  %6.1f  %6.1f  %6.1f  %.2f\n",
			id, s.TotalLength, s.A, s.C, s.G, s.T, s.CGPercent, s.CGATRatio)
	}

	fmt.Fprintf(w, "\n%d records\n", len(rows))
}
