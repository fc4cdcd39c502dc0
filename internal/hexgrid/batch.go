package hexgrid

// ParallelogramBatches partitions the hex disk of the given radius into
// rows*cols lists of axial coordinates. The enclosing rhombus (Q and R each
// ranging over [-radius, radius]) is tiled into a rows x cols grid of
// parallelogram cells; each cell is intersected with the disk (InGrid) to
// produce one batch. Every in-grid coordinate appears in exactly one batch,
// in row-major order (batch index = row*cols + col).
func ParallelogramBatches(rows, cols, radius int) [][]Coord {
	span := 2*radius + 1
	rowBounds := splitRange(-radius, span, rows)
	colBounds := splitRange(-radius, span, cols)

	batches := make([][]Coord, 0, rows*cols)
	for _, rb := range rowBounds {
		for _, cb := range colBounds {
			batch := make([]Coord, 0)
			for r := rb.lo; r < rb.hi; r++ {
				for q := cb.lo; q < cb.hi; q++ {
					c := Coord{Q: q, R: r}
					if InGrid(c, radius) {
						batch = append(batch, c)
					}
				}
			}
			batches = append(batches, batch)
		}
	}
	return batches
}

type bound struct{ lo, hi int }

// splitRange divides [start, start+span) into n half-open bounds as evenly
// as possible; the first span%n bounds get one extra element.
func splitRange(start, span, n int) []bound {
	bounds := make([]bound, 0, n)
	base := span / n
	extra := span % n
	cur := start
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		bounds = append(bounds, bound{lo: cur, hi: cur + size})
		cur += size
	}
	return bounds
}
