// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import "github.com/s28672/pbio/pkg/types"

// FilterByLength returns the records whose length lies inside r, in their
// original order. The input slice is left untouched.
func FilterByLength(records []types.SequenceRecord, r types.FilterRange) []types.SequenceRecord {
	kept := make([]types.SequenceRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Length) {
			kept = append(kept, rec)
		}
	}
	return kept
}
