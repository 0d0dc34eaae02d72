package neuro

import (
	"errors"
	"fmt"
)

// ErrRaggedSample is returned when building a matrix from rows of unequal
// length.
var ErrRaggedSample = errors.New("neuro: rows of a sample must have equal length")

// A Sample is a 2D input value presented to an input resource.
type Sample interface {
	Shape() Shape
	At(row, col int) float64
}

// Matrix is a dense row-major Sample.
type Matrix struct {
	shape  Shape
	values []float64
}

// NewMatrix builds a matrix from rows of values.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	m := &Matrix{}
	if len(rows) == 0 {
		return m, nil
	}

	m.shape = Shape{Rows: len(rows), Cols: len(rows[0])}
	m.values = make([]float64, 0, m.shape.Size())

	for i, row := range rows {
		if len(row) != m.shape.Cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d",
				ErrRaggedSample, i, len(row), m.shape.Cols)
		}

		m.values = append(m.values, row...)
	}

	return m, nil
}

// Uniform returns a rows x cols matrix filled with value.
func Uniform(rows, cols int, value float64) *Matrix {
	m := &Matrix{
		shape:  Shape{Rows: rows, Cols: cols},
		values: make([]float64, rows*cols),
	}

	for i := range m.values {
		m.values[i] = value
	}

	return m
}

// Checker returns a rows x cols black-and-white checkerboard whose top-left
// cell is 1.
func Checker(rows, cols int) *Matrix {
	m := Uniform(rows, cols, 0)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if (r+c)%2 == 0 {
				m.values[r*cols+c] = 1
			}
		}
	}

	return m
}

// Shape returns the extent of the matrix.
func (m *Matrix) Shape() Shape {
	return m.shape
}

// At returns the value at (row, col).
func (m *Matrix) At(row, col int) float64 {
	return m.values[row*m.shape.Cols+col]
}
