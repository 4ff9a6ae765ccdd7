package bundle

import "strconv"

// Well-known positions, ordered from earliest to latest point of the page.
const (
	PositionHead  = 1
	PositionBegin = 2
	PositionEnd   = 3
)

// Position is a nullable integer ordering hint constraining where a bundle's
// files must sit relative to others. The zero value is unset.
type Position struct {
	value int
	set   bool
}

// At creates a set Position with the given value.
func At(value int) Position {
	return Position{value: value, set: true}
}

// IsSet reports whether the position carries a value.
func (p Position) IsSet() bool {
	return p.set
}

// Value returns the position value. Only meaningful when IsSet is true.
func (p Position) Value() int {
	return p.value
}

func (p Position) String() string {
	if !p.set {
		return "unset"
	}
	return strconv.Itoa(p.value)
}
