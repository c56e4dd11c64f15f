package domain

// Materialize returns rows x columns free seats for an event, row-major, 1-based.
func Materialize(eventID string, rows, columns int) ([]Seat, error) {
	if rows < 1 || columns < 1 {
		return nil, ErrInvalidDimensions
	}
	seats := make([]Seat, 0, rows*columns)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= columns; c++ {
			seats = append(seats, Seat{EventID: eventID, Row: r, Column: c})
		}
	}
	return seats, nil
}

// Expand returns only the cells of the new rectangle that the old rectangle does not cover:
// r > oldRows or c > oldCols, bounded by newRows x newCols.
func Expand(eventID string, oldRows, oldCols, newRows, newCols int) ([]Seat, error) {
	if oldRows < 1 || oldCols < 1 || newRows < 1 || newCols < 1 {
		return nil, ErrInvalidDimensions
	}
	if newRows < oldRows || newCols < oldCols {
		return nil, ErrShrinkNotAllowed
	}
	seats := make([]Seat, 0, newRows*newCols-oldRows*oldCols)
	for r := 1; r <= newRows; r++ {
		for c := 1; c <= newCols; c++ {
			if r <= oldRows && c <= oldCols {
				continue
			}
			seats = append(seats, Seat{EventID: eventID, Row: r, Column: c})
		}
	}
	return seats, nil
}

// LayoutCell is one position of a seating layout.
type LayoutCell struct {
	// Exists is false when no seat is recorded at this position.
	Exists        bool
	ReservationID string
}

// BuildLayout arranges seats into a maxRow x maxCol matrix. The dimensions come from the
// observed extrema of the seat set, so a trailing row or column with no stored seats is not
// represented.
func BuildLayout(seats []Seat) [][]LayoutCell {
	maxRow, maxCol := 0, 0
	for _, s := range seats {
		if s.Row > maxRow {
			maxRow = s.Row
		}
		if s.Column > maxCol {
			maxCol = s.Column
		}
	}

	layout := make([][]LayoutCell, maxRow)
	for r := range layout {
		layout[r] = make([]LayoutCell, maxCol)
	}
	for _, s := range seats {
		if s.Row < 1 || s.Column < 1 {
			continue
		}
		layout[s.Row-1][s.Column-1] = LayoutCell{Exists: true, ReservationID: s.ReservationID}
	}
	return layout
}
