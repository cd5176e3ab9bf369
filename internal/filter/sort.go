package filter

import "fmt"

// Direction is the ordering applied to a sort column.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// Sort is the current ordering of a list. The zero value is unsorted.
type Sort struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction"`
}

// Next returns the ordering after the user activates column. Each column
// cycles ascending, descending, unsorted; activating a different column
// starts that column at ascending.
func (s Sort) Next(column string) Sort {
	if s.Column != column || s.Direction == Unsorted {
		return Sort{Column: column, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return Sort{Column: column, Direction: Descending}
	}
	return Sort{}
}

// OrderBy renders the wire order_by parameter: the snake_case column,
// prefixed with '-' when descending. Unsorted yields "".
func (s Sort) OrderBy() string {
	if s.Column == "" || s.Direction == Unsorted {
		return ""
	}
	col := SnakeCase(s.Column)
	if s.Direction == Descending {
		return "-" + col
	}
	return col
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

// MarshalText renders the direction as "asc", "desc" or "".
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText accepts the forms produced by MarshalText.
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "asc":
		*d = Ascending
	case "desc":
		*d = Descending
	case "":
		*d = Unsorted
	default:
		return fmt.Errorf("%w: direction %q", ErrBadValue, b)
	}
	return nil
}
