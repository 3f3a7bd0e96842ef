package util

// Matrix2 is a sparse two-dimensional map keyed by X then Y.
type Matrix2[EX comparable, EY comparable, V any] map[EX]map[EY]V

// NewMatrix2 returns an empty Matrix2.
func NewMatrix2[EX comparable, EY comparable, V any]() Matrix2[EX, EY, V] {
	return map[EX]map[EY]V{}
}

// Set assigns v to the cell at (x, y), creating the row if needed.
func (m Matrix2[EX, EY, V]) Set(x EX, y EY, v V) {
	row, ok := m[x]
	if !ok {
		row = map[EY]V{}
		m[x] = row
	}
	row[y] = v
}

// Get returns a pointer to the value at (x, y), or nil if that cell has never
// been set.
func (m Matrix2[EX, EY, V]) Get(x EX, y EY) *V {
	row, ok := m[x]
	if !ok {
		return nil
	}
	v, ok := row[y]
	if !ok {
		return nil
	}
	return &v
}

// Has returns whether the cell at (x, y) has been set.
func (m Matrix2[EX, EY, V]) Has(x EX, y EY) bool {
	return m.Get(x, y) != nil
}

// Len returns the number of cells that have been set.
func (m Matrix2[EX, EY, V]) Len() int {
	var n int
	for _, row := range m {
		n += len(row)
	}
	return n
}
