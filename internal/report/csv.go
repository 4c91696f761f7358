// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the artifacts of a retrieval run: a CSV table, a
// ranked chart of sequence lengths, and an optional Markdown or HTML summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/s28672/pbio/internal/fileutil"
	"github.com/s28672/pbio/pkg/types"
)

var csvHeader = []string{"Accession", "Length", "Description"}

// WriteCSV writes one row per record, in input order, under the header
// Accession,Length,Description.
func WriteCSV(path string, records []types.SequenceRecord) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return EncodeCSV(w, records)
	})
}

// EncodeCSV writes the CSV table to w.
func EncodeCSV(w io.Writer, records []types.SequenceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Accession, strconv.Itoa(r.Length), r.Description}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.Accession, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
