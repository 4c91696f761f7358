// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/s28672/pbio/internal/fileutil"
	"github.com/s28672/pbio/pkg/types"
)

// Summary describes a finished retrieval run.
type Summary struct {
	TaxID   string
	Range   types.FilterRange
	Found   int
	Fetched int
	Records []types.SequenceRecord
}

// WriteSummary writes the run summary as Markdown, or as HTML when path ends
// in .html or .htm.
func WriteSummary(path string, s Summary) error {
	var md bytes.Buffer
	if err := EncodeSummary(&md, s); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		if ext == ".html" || ext == ".htm" {
			return renderHTML(w, md.Bytes())
		}
		_, err := w.Write(md.Bytes())
		return err
	})
}

// EncodeSummary writes the Markdown summary to w. Records are listed
// longest first.
func EncodeSummary(w io.Writer, s Summary) error {
	var b strings.Builder
	b.WriteString("# GenBank retrieval summary\n\n")
	fmt.Fprintf(&b, "- Taxonomic ID: %s\n", s.TaxID)
	fmt.Fprintf(&b, "- Length filter: %s\n", s.Range)
	fmt.Fprintf(&b, "- Records found: %d\n", s.Found)
	fmt.Fprintf(&b, "- Records fetched: %d\n", s.Fetched)
	fmt.Fprintf(&b, "- Records matching: %d\n", len(s.Records))

	if len(s.Records) > 0 {
		lo, hi, total := s.Records[0].Length, s.Records[0].Length, 0
		for _, r := range s.Records {
			lo = min(lo, r.Length)
			hi = max(hi, r.Length)
			total += r.Length
		}
		mean := float64(total) / float64(len(s.Records))
		fmt.Fprintf(&b, "- Length range: %d to %d bp (mean %.1f)\n", lo, hi, mean)

		b.WriteString("\n| Rank | Accession | Length (bp) | Description |\n")
		b.WriteString("|---:|---|---:|---|\n")
		for i, r := range RankByLength(s.Records) {
			fmt.Fprintf(&b, "| %d | %s | %d | %s |\n", i+1, escapeCell(r.Accession), r.Length, escapeCell(r.Description))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func renderHTML(w io.Writer, md []byte) error {
	var body bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := gm.Convert(md, &body); err != nil {
		return fmt.Errorf("rendering summary HTML: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>GenBank retrieval summary</title>\n</head>\n<body>\n%s</body>\n</html>\n", body.String())
	return err
}
