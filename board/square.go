package board

import (
	"fmt"
	"strconv"
	"strings"
)

// A Color is the content of a single square; it doubles as the side to move.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

// Opponent returns the other side. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Position is a (row, column) coordinate on the board. Both are 0-based.
type Position struct {
	Row int
	Col int
}

// NoPosition is used wherever a position is optional.
var NoPosition = Position{Row: -1, Col: -1}

// String renders the position the way players write it: a column letter
// followed by a 1-based row number, e.g. "d3".
func (p Position) String() string {
	if p.Row < 0 || p.Col < 0 || p.Col >= 26 {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// ParsePosition parses a coordinate such as "d3" or "D3" on a board of the
// given dimension.
func ParsePosition(s string, dim int) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return NoPosition, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	col := int(s[0] - 'a')
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return NoPosition, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	p := Position{Row: row - 1, Col: col}
	if !p.inBounds(dim) {
		return NoPosition, fmt.Errorf("%w: %q is off a %dx%d board", ErrBadCoordinate, s, dim, dim)
	}
	return p, nil
}

func (p Position) inBounds(dim int) bool {
	return p.Row >= 0 && p.Row < dim && p.Col >= 0 && p.Col < dim
}

// directions are the eight compass offsets, as (row, col) deltas.
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
