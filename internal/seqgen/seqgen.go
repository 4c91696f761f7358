// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seqgen generates random DNA sequences and splices a name into
// them at a random position.
package seqgen

import (
	"math/rand"
	"time"

	"github.com/s28672/pbio/pkg/types"
)

const alphabet = "ACGT"

// NewRand returns a random source seeded with seed, or with the clock when
// seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Generate returns n bases drawn uniformly from A, C, G and T.
func Generate(rng *rand.Rand, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

// InsertName places name at an offset drawn uniformly from the len(seq)+1
// positions, so both ends are possible.
func InsertName(rng *rand.Rand, seq, name string) (string, int) {
	offset := rng.Intn(len(seq) + 1)
	return seq[:offset] + name + seq[offset:], offset
}

// New generates a sequence of n bases and splices name into it.
func New(rng *rand.Rand, id, description string, n int, name string) types.GeneratedSequence {
	raw := Generate(rng, n)
	final, offset := InsertName(rng, raw, name)
	return types.GeneratedSequence{
		ID:          id,
		Description: description,
		Raw:         raw,
		Name:        name,
		Offset:      offset,
		Final:       final,
	}
}
