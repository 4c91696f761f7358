// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BaseCounts holds raw occurrence counts of the four canonical bases.
type BaseCounts struct {
	A int `json:"a" yaml:"a"`
	C int `json:"c" yaml:"c"`
	G int `json:"g" yaml:"g"`
	T int `json:"t" yaml:"t"`
}

// CompositionStats summarizes the base composition of a sequence.
//
// Percentages are taken over TotalLength, which counts every character of
// the sequence, so characters outside ACGT lower all four percentages.
// CGATRatio is zero when the sequence holds no A or T.
type CompositionStats struct {
	A         float64 `json:"a_pct" yaml:"a_pct"`
	C         float64 `json:"c_pct" yaml:"c_pct"`
	G         float64 `json:"g_pct" yaml:"g_pct"`
	T         float64 `json:"t_pct" yaml:"t_pct"`
	CGPercent float64 `json:"cg_pct" yaml:"cg_pct"`
	CGATRatio float64 `json:"cg_at_ratio" yaml:"cg_at_ratio"`

	Counts      BaseCounts `json:"counts" yaml:"counts"`
	TotalLength int        `json:"total_length" yaml:"total_length"`
}

// Empty reports whether the stats were computed over an empty sequence.
func (s CompositionStats) Empty() bool {
	return s.TotalLength == 0
}
