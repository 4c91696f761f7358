// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/s28672/pbio/internal/fileutil"
	"github.com/s28672/pbio/pkg/types"
)

// WriteIDFile saves a search result so a later run can fetch the same ids
// without calling esearch.
func WriteIDFile(path, taxid string, maxRecords int, ids []string) error {
	f := types.IDFile{
		TaxID:      taxid,
		MaxRecords: maxRecords,
		IDs:        ids,
		Timestamp:  time.Now().UTC(),
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling id file: %w", err)
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// ReadIDFile loads an id file written by WriteIDFile.
func ReadIDFile(path string) (*types.IDFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading id file: %w", err)
	}
	var f types.IDFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing id file: %w", err)
	}
	return &f, nil
}

// SavingSearcher writes every successful search result to Path before
// returning it. A failed write is reported on W and does not fail the search.
type SavingSearcher struct {
	Searcher
	Path string
	W    io.Writer
}

// Search delegates to the wrapped Searcher and saves the ids it returns.
func (s SavingSearcher) Search(ctx context.Context, taxid string, maxRecords int) ([]string, error) {
	ids, err := s.Searcher.Search(ctx, taxid, maxRecords)
	if err != nil {
		return ids, err
	}
	if werr := WriteIDFile(s.Path, taxid, maxRecords, ids); werr != nil {
		fmt.Fprintf(s.W, "Error saving ids: %v\n", werr)
	} else {
		fmt.Fprintf(s.W, "Search results saved to %s\n", s.Path)
	}
	return ids, nil
}
