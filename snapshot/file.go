package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// FileSource serves a dataset from a JSON file. The file is read and
// validated once; every Load after that returns the parsed dataset.
type FileSource struct {
	path string

	once    sync.Once
	dataset *graph.Snapshot
	err     error
}

// NewFileSource wraps a JSON dataset file as a Source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads, parses, and validates the dataset file.
func (fs *FileSource) Load(_ context.Context) (*graph.Snapshot, error) {
	fs.once.Do(func() {
		data, err := os.ReadFile(fs.path)
		if err != nil {
			fs.err = errors.WrapTransient(errors.ErrSourceUnavailable,
				"FileSource", "Load", fs.path+": "+err.Error())
			return
		}

		var dataset graph.Snapshot
		if err := json.Unmarshal(data, &dataset); err != nil {
			fs.err = errors.WrapInvalid(err, "FileSource", "Load", "dataset parse")
			return
		}
		if err := dataset.Validate(); err != nil {
			fs.err = errors.WrapInvalid(err, "FileSource", "Load", "dataset validation")
			return
		}
		fs.dataset = &dataset
	})
	return fs.dataset, fs.err
}
