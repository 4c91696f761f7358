// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fasta

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a/b*c", "a_b_c"},
		{"seq_1.v2-final", "seq_1.v2-final"},
		{"with space", "with_space"},
		{"ünïcode", "_n_code"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeID(tt.in))
		})
	}
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name  string
		seq   string
		lines []int
	}{
		{"short", "ACGT", []int{4}},
		{"exact", strings.Repeat("A", 60), []int{60}},
		{"wrapped", strings.Repeat("C", 130), []int{60, 60, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, "id", "desc", tt.seq))

			out := buf.String()
			require.True(t, strings.HasSuffix(out, "\n"))
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			assert.Equal(t, ">id desc", lines[0])

			var got []int
			for _, l := range lines[1:] {
				got = append(got, len(l))
			}
			assert.Equal(t, tt.lines, got)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	seq := strings.Repeat("ACGTACGTAC", 13)

	path, err := WriteFile(dir, "a/b*c", "my description", seq)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_b_c.fasta"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ">a/b*c my description", lines[0])
	assert.Len(t, lines[1], 60)
	assert.Len(t, lines[2], 60)
	assert.Len(t, lines[3], 10)
	assert.Equal(t, seq, lines[1]+lines[2]+lines[3])
}

func TestWriteFileMissingDir(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "nope"), "x", "", "ACGT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.fasta")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.fasta")
	content := ">seq1 first record\nACGT\nAC\n>seq2\nGGGG\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{ID: "seq1", Description: "first record", Sequence: "ACGTAC"}, records[0])
	assert.Equal(t, Record{ID: "seq2", Sequence: "GGGG"}, records[1])
}

func TestReadFileKeepsLowercaseName(t *testing.T) {
	dir := t.TempDir()
	seq := strings.Repeat("ACGT", 20) + "Ada" + strings.Repeat("TTGCA", 10)
	path, err := WriteFile(dir, "named", "with a name", seq)
	require.NoError(t, err)

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, seq, records[0].Sequence)
}

func TestReadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	seq := strings.Repeat("GATTACA", 20)
	path, err := WriteFile(dir, "rt", "round trip", seq)
	require.NoError(t, err)

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, seq, records[0].Sequence)
	assert.Equal(t, "round trip", records[0].Description)
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fasta")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseRejectsHeaderlessData(t *testing.T) {
	_, err := Parse([]byte("ACGT\n>late\nAC\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing fasta")
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.fasta"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
