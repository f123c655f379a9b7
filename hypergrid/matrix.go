package hypergrid

import "github.com/katalvlaran/moea/ndarray"

// StorageMatrix keeps one payload of type T per hyperbox of a grid shape.
// Branch-local scratch matrices of density algorithms are StorageMatrix
// instances that get merged after the parallel region.
type StorageMatrix[T any] struct {
	cells *ndarray.Array[T]
}

// NewStorageMatrix creates a matrix for the given grid shape.
func NewStorageMatrix[T any](gridSize []int) (*StorageMatrix[T], error) {
	cells, err := ndarray.New[T](gridSize...)
	if err != nil {
		return nil, err
	}

	return &StorageMatrix[T]{cells: cells}, nil
}

// Update resizes the matrix to a new grid shape, adjusting the dimension
// count as needed. Payloads at surviving coordinates are kept.
func (m *StorageMatrix[T]) Update(gridSize []int) error {
	if m.cells == nil || m.cells.DimensionCount() == 0 {
		cells, err := ndarray.New[T](gridSize...)
		if err != nil {
			return err
		}
		m.cells = cells

		return nil
	}

	var zero T

	// grow or trim the dimension count before reshaping
	current := m.cells.DimensionCount()
	if extra := len(gridSize) - current; extra > 0 {
		add := make([]int, extra)
		for i := range add {
			add[i] = 1
		}
		if err := m.cells.AppendDimensions(add, zero); err != nil {
			return err
		}
	} else if extra < 0 {
		if err := m.cells.RemoveLastDimensions(-extra); err != nil {
			return err
		}
	}

	return m.cells.Reshape(gridSize, zero)
}

// At returns a pointer to the payload of the given hyperbox.
func (m *StorageMatrix[T]) At(box HyperBox) (*T, error) {
	return m.cells.At(box...)
}

// Fill sets every payload to value.
func (m *StorageMatrix[T]) Fill(value T) {
	data := m.cells.Data()
	for i := range data {
		data[i] = value
	}
}

// Len returns the number of cells.
func (m *StorageMatrix[T]) Len() int {
	if m.cells == nil {
		return 0
	}

	return m.cells.Len()
}

// GridSize returns the matrix shape.
func (m *StorageMatrix[T]) GridSize() []int { return m.cells.DimensionSizes() }
