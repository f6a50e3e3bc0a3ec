package similarity

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/reciperadar/reciperadar/pkg/feature"
)

// bundleVersion guards the on-disk format.
const bundleVersion = 1

// bundle is the single-unit on-disk form of an index: matrix, both ID
// maps and the fitted extractor state travel together. A file missing
// any part is rejected at load.
type bundle struct {
	Version   int            `json:"version"`
	Matrix    *Matrix        `json:"matrix"`
	IDToIndex map[int64]int  `json:"id_to_index"`
	IndexToID []int64        `json:"index_to_id"`
	State     *feature.State `json:"state"`
}

// Save writes the index as one gzip-compressed JSON bundle. The write
// goes through a temp file and rename so a crashed run never leaves a
// truncated bundle behind.
func (x *Index) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create bundle dir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bundle-*")
	if err != nil {
		return fmt.Errorf("create bundle temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	enc := json.NewEncoder(zw)
	err = enc.Encode(bundle{
		Version:   bundleVersion,
		Matrix:    &x.matrix,
		IDToIndex: x.idToIndex,
		IndexToID: x.indexToID,
		State:     x.state,
	})
	if err == nil {
		err = zw.Close()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write bundle %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalize bundle %s: %w", path, err)
	}
	return nil
}

// Load reads a bundle and validates that every part is present and
// mutually consistent before handing the index out. Partial bundles
// are an invalid interface usage and come back as errors.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	defer zr.Close()

	var b bundle
	if err := json.NewDecoder(zr).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", path, err)
	}

	if b.Version != bundleVersion {
		return nil, fmt.Errorf("bundle %s: version %d, want %d", path, b.Version, bundleVersion)
	}
	if b.Matrix == nil || b.IDToIndex == nil || b.IndexToID == nil || b.State == nil {
		return nil, fmt.Errorf("bundle %s: incomplete, matrix/id maps/vectorizer state must load together", path)
	}
	if !b.Matrix.valid() {
		return nil, fmt.Errorf("bundle %s: corrupt matrix structure", path)
	}
	rows := b.Matrix.NumRows()
	if rows != len(b.IndexToID) || rows != len(b.IDToIndex) {
		return nil, fmt.Errorf("bundle %s: matrix has %d rows, id maps have %d/%d entries",
			path, rows, len(b.IndexToID), len(b.IDToIndex))
	}
	for i, id := range b.IndexToID {
		if b.IDToIndex[id] != i {
			return nil, fmt.Errorf("bundle %s: id map is not a bijection at row %d (id %d)", path, i, id)
		}
	}

	idx := &Index{
		matrix:    *b.Matrix,
		idToIndex: b.IDToIndex,
		indexToID: b.IndexToID,
		state:     b.State,
	}
	idx.computeNorms()
	return idx, nil
}
