// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genbank parses GenBank flat-file records as returned by
// efetch with rettype=gb and retmode=text.
//
// Only the fields the retrieval pipeline reports on are kept: LOCUS name and
// declared length, DEFINITION, ACCESSION, VERSION, and the ORIGIN residues.
package genbank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/s28672/pbio/pkg/types"
)

// keywordWidth is the column where field values start in a GenBank record.
const keywordWidth = 12

const maxLine = 1 << 20

// ErrTruncated is returned when the input ends inside a record.
var ErrTruncated = errors.New("genbank: record not terminated by //")

// entry accumulates one record while its lines are scanned.
type entry struct {
	name       string
	declared   int
	definition []string
	accession  string
	version    string
	seq        strings.Builder
	keyword    string
}

func (e *entry) record() types.SequenceRecord {
	r := types.SequenceRecord{
		Accession:   e.version,
		Description: strings.TrimSuffix(strings.Join(e.definition, " "), "."),
		Sequence:    e.seq.String(),
	}
	if r.Accession == "" {
		r.Accession = e.accession
	}
	if r.Accession == "" {
		r.Accession = e.name
	}
	r.Length = len(r.Sequence)
	if r.Length == 0 {
		r.Length = e.declared
	}
	return r
}

// Parse reads every record from r in order. An empty input yields no
// records and no error.
func Parse(r io.Reader) ([]types.SequenceRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var (
		records []types.SequenceRecord
		cur     *entry
		lineNo  int
	)

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		if cur == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !strings.HasPrefix(line, "LOCUS") {
				return records, fmt.Errorf("genbank: line %d: expected LOCUS, got %q", lineNo, truncate(line, 60))
			}
			cur = &entry{}
			if err := cur.parseLocus(line); err != nil {
				return records, fmt.Errorf("genbank: line %d: %w", lineNo, err)
			}
			continue
		}

		if strings.HasPrefix(line, "//") {
			records = append(records, cur.record())
			cur = nil
			continue
		}

		cur.addLine(line)
	}
	if err := sc.Err(); err != nil {
		return records, fmt.Errorf("genbank: reading input: %w", err)
	}
	if cur != nil {
		return records, fmt.Errorf("%w (locus %s)", ErrTruncated, cur.name)
	}
	return records, nil
}

// parseLocus reads the record name and declared length from a LOCUS line,
// e.g. "LOCUS       MN908947               29903 bp    RNA     linear   VRL 18-MAR-2020".
func (e *entry) parseLocus(line string) error {
	e.keyword = "LOCUS"
	fields := strings.Fields(value(line))
	if len(fields) == 0 {
		return fmt.Errorf("empty LOCUS line")
	}
	e.name = fields[0]
	for i := 1; i < len(fields); i++ {
		if fields[i] != "bp" && fields[i] != "aa" {
			continue
		}
		n, err := strconv.Atoi(fields[i-1])
		if err != nil {
			return fmt.Errorf("LOCUS length %q: %w", fields[i-1], err)
		}
		e.declared = n
		break
	}
	return nil
}

func (e *entry) addLine(line string) {
	if line == "" {
		return
	}
	// Continuation lines are indented; keyword lines start in column 0.
	if line[0] != ' ' {
		e.keyword = strings.TrimSpace(keyword(line))
		v := strings.TrimSpace(value(line))
		switch e.keyword {
		case "DEFINITION":
			if v != "" {
				e.definition = append(e.definition, v)
			}
		case "ACCESSION":
			if f := strings.Fields(v); len(f) > 0 {
				e.accession = f[0]
			}
		case "VERSION":
			if f := strings.Fields(v); len(f) > 0 {
				e.version = f[0]
			}
		}
		return
	}

	switch e.keyword {
	case "DEFINITION":
		if v := strings.TrimSpace(line); v != "" {
			e.definition = append(e.definition, v)
		}
	case "ORIGIN":
		for i := 0; i < len(line); i++ {
			c := line[i]
			switch {
			case c >= 'a' && c <= 'z':
				e.seq.WriteByte(c - 'a' + 'A')
			case c >= 'A' && c <= 'Z', c == '*', c == '-':
				e.seq.WriteByte(c)
			}
		}
	}
}

func keyword(line string) string {
	if len(line) <= keywordWidth {
		return line
	}
	return line[:keywordWidth]
}

func value(line string) string {
	if len(line) <= keywordWidth {
		// Short keyword lines such as "ORIGIN" carry no value.
		if i := strings.IndexByte(line, ' '); i >= 0 {
			return line[i:]
		}
		return ""
	}
	return line[keywordWidth:]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
