// Package shapetable describes the pre-trained shape groupings: one learned
// template ("shape") can cover several unichar/font combinations. The table
// is read-only for the classifier; it is produced by training.
package shapetable

// UnicharFonts is one member of a shape: a unichar rendered by one or more
// fonts.
type UnicharFonts struct {
	UnicharID int
	FontIDs   []int
}

// Shape is a set of unichar/font members sharing one learned template.
type Shape struct {
	Members []UnicharFonts
}

// Table maps shape ids to shapes.
type Table struct {
	shapes []Shape
}

// New builds a table from shapes in id order.
func New(shapes []Shape) *Table {
	return &Table{shapes: shapes}
}

// NumShapes returns the number of shapes in the table.
func (t *Table) NumShapes() int { return len(t.shapes) }

// Shape returns the shape for an id; ok is false for out-of-range ids.
func (t *Table) Shape(id int) (Shape, bool) {
	if id < 0 || id >= len(t.shapes) {
		return Shape{}, false
	}
	return t.shapes[id], true
}

// MaxNumUnichars returns the largest member count over all shapes. Used to
// size the output choice list so one big shape cannot crowd out whole
// characters.
func (t *Table) MaxNumUnichars() int {
	max := 0
	for _, s := range t.shapes {
		if len(s.Members) > max {
			max = len(s.Members)
		}
	}
	return max
}
