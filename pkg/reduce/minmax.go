// Package reduce provides corpus-wide post-processing for feature
// matrices: independent per-column min-max scaling and a deterministic 2-D
// neighbor embedding for visualization.
package reduce

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MinMax rescales each column of a matrix to [0, 1] independently.
// Columns with zero variance map to 0.
type MinMax struct {
	min  []float64
	span []float64
}

// FitTransform fits the scaler to x and returns the scaled copy.
// Fails only on a degenerate (zero rows or zero columns) matrix.
func (m *MinMax) FitTransform(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("reduce: cannot scale %dx%d matrix", r, c)
	}

	m.min = make([]float64, c)
	m.span = make([]float64, c)
	for j := 0; j < c; j++ {
		lo, hi := x.At(0, j), x.At(0, j)
		for i := 1; i < r; i++ {
			v := x.At(i, j)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		m.min[j] = lo
		m.span[j] = hi - lo
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.span[j] == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (x.At(i, j)-m.min[j])/m.span[j])
		}
	}
	return out, nil
}

// FromRows builds a dense matrix from rectangular rows.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("reduce: empty matrix")
	}
	cols := len(rows[0])
	out := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("reduce: ragged row %d: %d values, want %d", i, len(row), cols)
		}
		out.SetRow(i, row)
	}
	return out, nil
}

// ToRows copies a matrix into per-row slices.
func ToRows(x mat.Matrix) [][]float64 {
	r, c := x.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = x.At(i, j)
		}
		rows[i] = row
	}
	return rows
}
