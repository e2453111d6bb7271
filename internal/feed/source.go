package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ekshubina/ai-job-agent/internal/job"
)

// FileSource reads posting records from a local JSON array, typically a
// dump produced by an external scraper.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Fetch(_ context.Context) (*job.Postings, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read postings file: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode postings file %s: %w", f.Path, err)
	}

	return job.FromRecords(records)
}
