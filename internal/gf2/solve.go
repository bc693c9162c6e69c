package gf2

// Dependency lists, in ascending order, the input row indices whose sum
// is the zero vector.
type Dependency []int

// Solve returns every dependency exposed by Gauss-Jordan elimination of m.
//
// Columns are processed left to right and the pivot for a column is the
// lowest-index row not yet used as a pivot, so the output depends only on
// the matrix contents. Each row carries an identity history vector that is
// XORed alongside it; rows that never become pivots end up zero and their
// history names the combination that produced them. Dependencies are
// returned in ascending order of that row index. m is not modified.
func Solve(m *Matrix) []Dependency {
	n := m.Rows()
	if n == 0 {
		return nil
	}

	rows := make([]Vector, n)
	history := make([]Vector, n)
	for i := 0; i < n; i++ {
		rows[i] = m.rows[i].Clone()
		history[i] = NewVector(n)
		history[i].Set(i)
	}

	pivoted := make([]bool, n)
	for col := 0; col < m.cols; col++ {
		pivot := -1
		for r := 0; r < n; r++ {
			if !pivoted[r] && rows[r].Bit(col) {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		pivoted[pivot] = true

		for r := 0; r < n; r++ {
			if r != pivot && rows[r].Bit(col) {
				rows[r].Xor(rows[pivot])
				history[r].Xor(history[pivot])
			}
		}
	}

	var deps []Dependency
	for r := 0; r < n; r++ {
		if pivoted[r] || !rows[r].IsZero() {
			continue
		}
		deps = append(deps, Dependency(history[r].Ones()))
	}
	return deps
}
