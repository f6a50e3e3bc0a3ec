package similarity

import "math"

// Matrix is a compressed sparse row matrix. Row i's non-zero entries
// live in Cols/Vals between RowPtr[i] and RowPtr[i+1], with column
// indices strictly increasing inside a row.
type Matrix struct {
	NCols  int       `json:"n_cols"`
	RowPtr []int     `json:"row_ptr"`
	Cols   []int     `json:"cols"`
	Vals   []float64 `json:"vals"`
}

// NumRows returns the matrix row count.
func (m *Matrix) NumRows() int {
	if len(m.RowPtr) == 0 {
		return 0
	}
	return len(m.RowPtr) - 1
}

// row returns the non-zero entries of row i.
func (m *Matrix) row(i int) (cols []int, vals []float64) {
	start, end := m.RowPtr[i], m.RowPtr[i+1]
	return m.Cols[start:end], m.Vals[start:end]
}

// rowNorm returns the Euclidean norm of row i.
func (m *Matrix) rowNorm(i int) float64 {
	_, vals := m.row(i)
	sum := 0.0
	for _, v := range vals {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// valid performs structural checks on a deserialized matrix.
func (m *Matrix) valid() bool {
	if m.NCols < 0 || len(m.RowPtr) == 0 || m.RowPtr[0] != 0 {
		return false
	}
	nnz := m.RowPtr[len(m.RowPtr)-1]
	if nnz != len(m.Cols) || nnz != len(m.Vals) {
		return false
	}
	for i := 1; i < len(m.RowPtr); i++ {
		if m.RowPtr[i] < m.RowPtr[i-1] {
			return false
		}
	}
	for _, c := range m.Cols {
		if c < 0 || c >= m.NCols {
			return false
		}
	}
	return true
}

// dot returns the dot product of row i with a dense vector.
func (m *Matrix) dot(i int, dense []float64) float64 {
	cols, vals := m.row(i)
	sum := 0.0
	for k, c := range cols {
		sum += vals[k] * dense[c]
	}
	return sum
}
