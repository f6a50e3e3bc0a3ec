package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/reciperadar/reciperadar/pkg/feature"
)

// ErrRecipeNotFound signals that a queried recipe ID is absent from
// the index. Callers decide the fallback; the index never answers an
// unknown ID with an empty-but-successful result.
var ErrRecipeNotFound = errors.New("recipe id not in similarity index")

// Match is one similarity query result.
type Match struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}

// Index holds the concatenated weighted feature matrix together with
// the id-to-index bijection and the fitted extractor state. The three
// parts are meaningless in isolation and are always persisted and
// loaded as one unit.
type Index struct {
	matrix    Matrix
	idToIndex map[int64]int
	indexToID []int64
	norms     []float64
	state     *feature.State
}

// Build concatenates the weighted feature blocks horizontally into one
// sparse matrix and wires the ID mappings. Row counts that disagree
// with the recipe collection or duplicate IDs are structural errors
// that abort the build: they mean the row-to-ID invariant is already
// broken.
func Build(ids []int64, blocks []feature.Block, state *feature.State) (*Index, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("build index: empty recipe collection")
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("build index: no feature blocks")
	}

	totalCols := 0
	for _, b := range blocks {
		if b.NumRows() != len(ids) {
			return nil, fmt.Errorf("build index: block %s has %d rows, recipe collection has %d", b.Name, b.NumRows(), len(ids))
		}
		if b.Weight < 0 {
			return nil, fmt.Errorf("build index: block %s has negative weight %g", b.Name, b.Weight)
		}
		totalCols += b.Cols
	}

	idToIndex := make(map[int64]int, len(ids))
	indexToID := make([]int64, len(ids))
	for i, id := range ids {
		if prev, dup := idToIndex[id]; dup {
			return nil, fmt.Errorf("build index: duplicate recipe id %d at rows %d and %d", id, prev, i)
		}
		idToIndex[id] = i
		indexToID[i] = id
	}

	m := Matrix{
		NCols:  totalCols,
		RowPtr: make([]int, 1, len(ids)+1),
	}
	for i := range ids {
		offset := 0
		for _, b := range blocks {
			for _, cell := range b.Rows[i] {
				if v := cell.Val * b.Weight; v != 0 {
					m.Cols = append(m.Cols, offset+cell.Col)
					m.Vals = append(m.Vals, v)
				}
			}
			offset += b.Cols
		}
		m.RowPtr = append(m.RowPtr, len(m.Cols))
	}

	idx := &Index{
		matrix:    m,
		idToIndex: idToIndex,
		indexToID: indexToID,
		state:     state,
	}
	idx.computeNorms()
	return idx, nil
}

func (x *Index) computeNorms() {
	x.norms = make([]float64, x.matrix.NumRows())
	for i := range x.norms {
		x.norms[i] = x.matrix.rowNorm(i)
	}
}

// Len returns the number of indexed recipes.
func (x *Index) Len() int { return len(x.indexToID) }

// State returns the fitted extractor state the matrix was built with.
func (x *Index) State() *feature.State { return x.state }

// IDs returns the indexed recipe IDs in row order.
func (x *Index) IDs() []int64 {
	out := make([]int64, len(x.indexToID))
	copy(out, x.indexToID)
	return out
}

// Similarity returns the cosine similarity of two indexed recipes.
func (x *Index) Similarity(a, b int64) (float64, error) {
	ra, ok := x.idToIndex[a]
	if !ok {
		return 0, fmt.Errorf("similarity %d: %w", a, ErrRecipeNotFound)
	}
	rb, ok := x.idToIndex[b]
	if !ok {
		return 0, fmt.Errorf("similarity %d: %w", b, ErrRecipeNotFound)
	}
	return x.cosine(rb, x.densify(ra), x.norms[ra]), nil
}

// cosine compares row i against a dense query vector. Non-negative
// features keep the result in [0, 1]; float drift at the edges is
// clamped.
func (x *Index) cosine(i int, dense []float64, queryNorm float64) float64 {
	if queryNorm == 0 || x.norms[i] == 0 {
		return 0
	}
	sim := x.matrix.dot(i, dense) / (x.norms[i] * queryNorm)
	return math.Max(0, math.Min(sim, 1))
}

// TopK returns the k most similar recipes to the given ID, best first.
// The query recipe itself is excluded. Equal scores break toward the
// lower recipe ID so results are deterministic.
func (x *Index) TopK(id int64, k int) ([]Match, error) {
	row, ok := x.idToIndex[id]
	if !ok {
		return nil, fmt.Errorf("top-k for %d: %w", id, ErrRecipeNotFound)
	}
	if k <= 0 {
		return nil, nil
	}

	dense := x.densify(row)
	queryNorm := x.norms[row]

	matches := make([]Match, 0, x.Len()-1)
	for i := range x.indexToID {
		if i == row {
			continue
		}
		matches = append(matches, Match{
			ID:    x.indexToID[i],
			Score: x.cosine(i, dense, queryNorm),
		})
	}
	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].ID < matches[b].ID
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// densify expands one matrix row into a dense vector for repeated dot
// products.
func (x *Index) densify(row int) []float64 {
	dense := make([]float64, x.matrix.NCols)
	cols, vals := x.matrix.row(row)
	for k, c := range cols {
		dense[c] = vals[k]
	}
	return dense
}
