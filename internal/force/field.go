package force

import "github.com/jkleist/shearmd/internal/md"

// Field stores the per-particle force attributed to each shell
// separately. It is allocated once per run and rewritten every
// evaluation; shell k is the single writer of its own slice.
type Field struct {
	shells [][]md.Vec
}

// NewField allocates a field for n particles and k shells.
func NewField(n, k int) *Field {
	shells := make([][]md.Vec, k)
	for i := range shells {
		shells[i] = make([]md.Vec, n)
	}
	return &Field{shells: shells}
}

// Shells is the number of shells K.
func (f *Field) Shells() int { return len(f.shells) }

// Shell returns the force slice for shell k (1-based, matching the
// cutoff numbering).
func (f *Field) Shell(k int) []md.Vec { return f.shells[k-1] }

// Sum writes the shell-summed force on every particle into dst.
func (f *Field) Sum(dst []md.Vec) {
	for i := range dst {
		dst[i] = md.Vec{}
	}
	for _, shell := range f.shells {
		for i, fi := range shell {
			dst[i] = dst[i].Add(fi)
		}
	}
}
