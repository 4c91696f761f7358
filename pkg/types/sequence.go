// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pbio pipelines.
//
// The retrieval pipeline passes SequenceRecord values from the Entrez fetch
// step through the length filter to the report writers. The sequence
// pipeline produces a GeneratedSequence and summarizes it as
// CompositionStats.
package types

import (
	"fmt"
	"strconv"
	"time"
)

// SequenceRecord is a nucleotide record fetched from GenBank.
// Records are never modified after the parser produces them.
type SequenceRecord struct {
	// Accession is the versioned accession (e.g. "NC_045512.2").
	Accession string `json:"accession" yaml:"accession"`

	// Description is the DEFINITION line without its trailing period.
	Description string `json:"description" yaml:"description"`

	// Length is the number of residues in the record.
	Length int `json:"length" yaml:"length"`

	// Sequence holds the upper-cased residues. Empty for records that
	// declare a length but carry no ORIGIN block.
	Sequence string `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// FilterRange is an inclusive length window. A nil MaxLength leaves the
// window open at the top.
type FilterRange struct {
	MinLength int  `json:"min_length" yaml:"min_length"`
	MaxLength *int `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

// Bounded returns a range with both ends set.
func Bounded(min, max int) FilterRange {
	return FilterRange{MinLength: min, MaxLength: &max}
}

// AtLeast returns a range with no upper bound.
func AtLeast(min int) FilterRange {
	return FilterRange{MinLength: min}
}

// Contains reports whether n falls inside the range.
func (r FilterRange) Contains(n int) bool {
	if n < r.MinLength {
		return false
	}
	return r.MaxLength == nil || n <= *r.MaxLength
}

// Validate rejects negative minimums and inverted ranges.
func (r FilterRange) Validate() error {
	if r.MinLength < 0 {
		return fmt.Errorf("min length %d is negative", r.MinLength)
	}
	if r.MaxLength != nil && *r.MaxLength < r.MinLength {
		return fmt.Errorf("max length %d is below min length %d", *r.MaxLength, r.MinLength)
	}
	return nil
}

// String renders the range as "min: X, max: Y", with "inf" for an open top.
func (r FilterRange) String() string {
	max := "inf"
	if r.MaxLength != nil {
		max = strconv.Itoa(*r.MaxLength)
	}
	return fmt.Sprintf("min: %d, max: %s", r.MinLength, max)
}

// GeneratedSequence is a random nucleotide string with a name spliced in.
// Final always equals Raw[:Offset] + Name + Raw[Offset:].
type GeneratedSequence struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Raw         string `json:"raw" yaml:"raw"`
	Name        string `json:"name" yaml:"name"`
	Offset      int    `json:"offset" yaml:"offset"`
	Final       string `json:"final" yaml:"final"`
}

// IDFile is the on-disk form of a GenBank search so a run can be replayed
// without querying esearch again.
type IDFile struct {
	TaxID      string    `yaml:"taxid"`
	MaxRecords int       `yaml:"max_records"`
	IDs        []string  `yaml:"ids"`
	Timestamp  time.Time `yaml:"timestamp"`
}
