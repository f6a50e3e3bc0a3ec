package feature

// easeCols is the ease block width: step count and preparation minutes.
const easeCols = 2

// MinMaxScaler rescales numeric columns onto [0, 1] across the
// dataset, so one unit of "steps" is comparable to one unit of
// "minutes". Min/Max are exported for persistence.
type MinMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// Fit records per-column minima and maxima.
func (s *MinMaxScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	n := len(rows[0])
	s.Min = make([]float64, n)
	s.Max = make([]float64, n)
	copy(s.Min, rows[0])
	copy(s.Max, rows[0])
	for _, row := range rows[1:] {
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
}

// Scale maps one value of column j onto [0, 1], clamping values beyond
// the fitted range. A constant column scales to 0.
func (s *MinMaxScaler) Scale(j int, v float64) float64 {
	if j >= len(s.Min) {
		return 0
	}
	spread := s.Max[j] - s.Min[j]
	if spread <= 0 {
		return 0
	}
	scaled := (v - s.Min[j]) / spread
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

// TransformCells scales rows and converts them into sparse cells,
// dropping exact zeros.
func (s *MinMaxScaler) TransformCells(rows [][]float64) [][]Cell {
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, 0, len(row))
		for j, v := range row {
			if scaled := s.Scale(j, v); scaled != 0 {
				cells = append(cells, Cell{Col: j, Val: scaled})
			}
		}
		out[i] = cells
	}
	return out
}
