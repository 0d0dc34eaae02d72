// Package neuro declares the collaborators the co-simulation consumes:
// samples, input-delivery resources, populations and rate encoders. It also
// ships small reference implementations of each.
package neuro

import "fmt"

// Shape is the (rows, cols) extent of a sample or an input resource.
type Shape struct {
	Rows int
	Cols int
}

// Size returns the number of cells.
func (s Shape) Size() int {
	return s.Rows * s.Cols
}

// String prints the shape as "(rows, cols)".
func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}
