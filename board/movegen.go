package board

import "fmt"

// LegalMoves returns every legal move for the side to move, in row-major
// order. It is empty when the side to move must pass or the game is over.
func (b *Board) LegalMoves() []Position {
	return b.LegalMovesInto(nil)
}

// LegalMovesInto appends the legal moves for the side to move onto dst and
// returns the extended slice.
func (b *Board) LegalMovesInto(dst []Position) []Position {
	return b.legalMovesFor(b.toMove, dst)
}

func (b *Board) legalMovesFor(c Color, dst []Position) []Position {
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			if b.get(row, col) != Empty {
				continue
			}
			if b.brackets(row, col, c) {
				dst = append(dst, Position{Row: row, Col: col})
			}
		}
	}
	return dst
}

// HasLegalMove reports whether c could place a disc anywhere.
func (b *Board) HasLegalMove(c Color) bool {
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			if b.get(row, col) == Empty && b.brackets(row, col, c) {
				return true
			}
		}
	}
	return false
}

// Mobility counts the legal moves available to c, regardless of whose turn
// it is.
func (b *Board) Mobility(c Color) int {
	n := 0
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			if b.get(row, col) == Empty && b.brackets(row, col, c) {
				n++
			}
		}
	}
	return n
}

// IsLegal reports whether the side to move may play at p.
func (b *Board) IsLegal(p Position) bool {
	if !p.inBounds(b.dim) || b.get(p.Row, p.Col) != Empty {
		return false
	}
	return b.brackets(p.Row, p.Col, b.toMove)
}

// brackets reports whether placing c at (row, col) would flip anything.
func (b *Board) brackets(row, col int, c Color) bool {
	for _, d := range directions {
		if b.runLength(row, col, d[0], d[1], c) > 0 {
			return true
		}
	}
	return false
}

// runLength returns how many opponent discs would flip in one direction if c
// were placed at (row, col); zero when the run is not closed by a c disc.
func (b *Board) runLength(row, col, dr, dc int, c Color) int {
	opp := c.Opponent()
	r, k := row+dr, col+dc
	n := 0
	for r >= 0 && r < b.dim && k >= 0 && k < b.dim {
		sq := b.get(r, k)
		switch sq {
		case opp:
			n++
		case c:
			return n
		default:
			return 0
		}
		r += dr
		k += dc
	}
	return 0
}

// Apply returns a new board with the side to move's disc placed at p.
// The receiver is not modified.
func (b *Board) Apply(p Position) (*Board, error) {
	cp := b.Copy()
	if _, err := cp.PlayInto(p, nil); err != nil {
		return nil, err
	}
	return cp, nil
}

// Play places the side to move's disc at p in place, flipping every
// bracketed opponent disc, and hands the turn over.
func (b *Board) Play(p Position) error {
	_, err := b.PlayInto(p, nil)
	return err
}

// PlayInto is Play, but also appends the row-major index of every flipped
// square onto flips. The board is untouched when the move is illegal.
func (b *Board) PlayInto(p Position, flips []int) ([]int, error) {
	if !p.inBounds(b.dim) {
		return flips, fmt.Errorf("%w: %v is off the board", ErrIllegalMove, p)
	}
	if b.get(p.Row, p.Col) != Empty {
		return flips, fmt.Errorf("%w: %v is occupied", ErrIllegalMove, p)
	}
	c := b.toMove
	start := len(flips)
	for _, d := range directions {
		n := b.runLength(p.Row, p.Col, d[0], d[1], c)
		r, k := p.Row, p.Col
		for i := 0; i < n; i++ {
			r += d[0]
			k += d[1]
			b.set(r, k, c)
			flips = append(flips, r*b.dim+k)
		}
	}
	if len(flips) == start {
		return flips, fmt.Errorf("%w: %v flips nothing for %v", ErrIllegalMove, p, c)
	}
	b.set(p.Row, p.Col, c)
	b.toMove = c.Opponent()
	return flips, nil
}
