package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s28672/pbio/internal/fasta"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "pbio dev\n", out)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := "abc\n0\n130\n\nmy/seq\nsynthetic test\nAda\n"

	out, err := execute(t, input, "generate", "--output-dir", dir, "--seed", "11")
	require.NoError(t, err)

	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "Please enter a positive number.")
	assert.Contains(t, out, "Sequence ID cannot be empty. Please try again.")

	path := filepath.Join(dir, "my_seq.fasta")
	assert.Contains(t, out, "The sequence was saved to the file "+path)
	assert.Contains(t, out, "Sequence statistics:")
	assert.Contains(t, out, "CG/AT ratio: ")

	records, err := fasta.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "my/seq", records[0].ID)
	assert.Equal(t, "synthetic test", records[0].Description)
	assert.Len(t, records[0].Sequence, 133)
	assert.Contains(t, records[0].Sequence, "Ada")
}

func TestGeneratePaddedID(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "20\n seq 1 \npadded\n Ada \n", "generate", "--output-dir", dir, "--seed", "3")
	require.NoError(t, err)

	path := filepath.Join(dir, "_seq_1_.fasta")
	assert.Contains(t, out, "The sequence was saved to the file "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "> seq 1  padded", lines[0])
	assert.Len(t, lines[1], 25)
	assert.Contains(t, lines[1], " Ada ")
}

func TestGenerateInputEnds(t *testing.T) {
	out, err := execute(t, "12\n", "generate", "--output-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Input ended")
}

func TestStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">s1 one\nAACCGGTT\n>s2 two\nCCAdaCC\n"), 0o644))

	out, err := execute(t, "", "stats", path, "--marker", "Ada")
	require.NoError(t, err)
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "2 records")
}

// genbankServer answers esearch with ids and efetch with one contig-style
// record per requested id, whose declared length comes from lengths.
func genbankServer(t *testing.T, ids []string, lengths map[string]int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/esearch.fcgi":
			quoted := make([]string, len(ids))
			for i, id := range ids {
				quoted[i] = `"` + id + `"`
			}
			fmt.Fprintf(w, `{"esearchresult":{"count":"%d","idlist":[%s]}}`, len(ids), strings.Join(quoted, ","))
		case "/efetch.fcgi":
			for _, id := range strings.Split(r.URL.Query().Get("id"), ",") {
				fmt.Fprintf(w, "LOCUS       REC%s %d bp    DNA     linear   CON 01-JAN-2020\n", id, lengths[id])
				fmt.Fprintf(w, "DEFINITION  Record %s.\n", id)
				fmt.Fprintf(w, "ACCESSION   REC%s\nVERSION     REC%s.1\n//\n", id, id)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRetrieve(t *testing.T) {
	ts := genbankServer(t, []string{"1", "2", "3", "4"}, map[string]int{"1": 500, "2": 1500, "3": 900, "4": 20})
	viper.Set("entrez.base_url", ts.URL)
	viper.Set("retry.unit", time.Millisecond)
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "report.csv")
	chartPath := filepath.Join(dir, "lengths.png")
	idsPath := filepath.Join(dir, "ids.yaml")

	out, err := execute(t, "", "retrieve",
		"--taxid", "2697049", "--email", "me@example.org",
		"--min-length", "100", "--max-length", "1000",
		"--csv-output", csvPath, "--chart-output", chartPath,
		"--save-ids", idsPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Searching GenBank for taxid: 2697049")
	assert.Contains(t, out, "Found 4 records. Fetching data...")
	assert.Contains(t, out, "Retrieved 4 records. Filtering by length...")
	assert.Contains(t, out, "2 records match the length criteria.")
	assert.Contains(t, out, "CSV report saved to "+csvPath)
	assert.Contains(t, out, "Visualization saved to "+chartPath)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Accession,Length,Description\nREC1.1,500,Record 1\nREC3.1,900,Record 3\n", string(data))
	assert.FileExists(t, chartPath)
	assert.FileExists(t, idsPath)
}

func TestRetrieveRejectsInvertedRange(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)
	viper.Set("entrez.base_url", ts.URL)
	t.Cleanup(viper.Reset)

	out, err := execute(t, "", "retrieve",
		"--taxid", "9606", "--email", "me@example.org",
		"--min-length", "500", "--max-length", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid length range")
	assert.NotContains(t, out, "Searching GenBank")
	assert.Zero(t, hits)
}
