// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fasta writes and reads FASTA files.
package fasta

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	bcbfasta "github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"
	"github.com/edsrzf/mmap-go"

	"github.com/s28672/pbio/internal/fileutil"
)

// LineWidth is the number of residues per sequence line.
const LineWidth = 60

// Record is one FASTA entry. ID is the first word of the header line and
// Description the rest of it.
type Record struct {
	ID          string
	Description string
	Sequence    string
}

// SanitizeID replaces every character outside ASCII letters, digits,
// underscore, hyphen and dot with an underscore.
func SanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.':
			return r
		}
		return '_'
	}, id)
}

// Write writes the header ">id description" followed by sequence wrapped at
// LineWidth. The id is written as given.
func Write(w io.Writer, id, description, sequence string) error {
	fw := bcbfasta.NewWriter(w)
	fw.Columns = LineWidth
	if err := fw.Write(toSequence(id+" "+description, sequence)); err != nil {
		return err
	}
	return fw.Flush()
}

// WriteFile writes the record to dir/SanitizeID(id).fasta and returns the
// path it used.
func WriteFile(dir, id, description, sequence string) (string, error) {
	path := filepath.Join(dir, SanitizeID(id)+".fasta")
	err := fileutil.WriteAtomic(path, func(w io.Writer) error {
		return Write(w, id, description, sequence)
	})
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ReadFile memory-maps path and parses every record in it.
func ReadFile(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, nil
	}

	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	defer mm.Unmap()

	records, err := Parse(mm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse reads every record in data. Residues are kept as written so that
// names spliced into generated sequences survive a round trip.
func Parse(data []byte) ([]Record, error) {
	fr := bcbfasta.NewReader(bytes.NewReader(data))
	fr.TrustSequences = true
	seqs, err := fr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing fasta: %w", err)
	}

	records := make([]Record, 0, len(seqs))
	for _, s := range seqs {
		id, desc, _ := strings.Cut(strings.TrimSpace(s.Name), " ")
		records = append(records, Record{
			ID:          id,
			Description: strings.TrimSpace(desc),
			Sequence:    fromResidues(s.Residues),
		})
	}
	return records, nil
}

func toSequence(name, s string) seq.Sequence {
	rs := make([]seq.Residue, len(s))
	for i := 0; i < len(s); i++ {
		rs[i] = seq.Residue(s[i])
	}
	return seq.Sequence{Name: name, Residues: rs}
}

func fromResidues(rs []seq.Residue) string {
	b := make([]byte, len(rs))
	for i, r := range rs {
		b[i] = byte(r)
	}
	return string(b)
}
