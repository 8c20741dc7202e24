package board

import (
	"errors"
	"fmt"
)

const (
	MinDim = 4
	// MaxDim keeps coordinates expressible as a single column letter.
	MaxDim = 16
	// DefaultDim is the standard Othello board.
	DefaultDim = 8
)

var (
	ErrInvalidDimension  = errors.New("board dimension must be even and between 4 and 16")
	ErrIllegalMove       = errors.New("illegal move")
	ErrBadCoordinate     = errors.New("bad coordinate")
	ErrMalformedEncoding = errors.New("malformed board encoding")
)

// A Board is an N×N Othello grid plus the side to move. Squares are stored
// row-major. The zero value is not usable; construct with NewBoard or Decode.
type Board struct {
	dim     int
	squares []Color
	toMove  Color
}

// NewBoard returns the standard starting position for a board of the given
// dimension: two white discs on the main diagonal of the centre, two black
// discs on the anti-diagonal, black to move.
func NewBoard(dim int) (*Board, error) {
	if dim < MinDim || dim > MaxDim || dim%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimension, dim)
	}
	b := &Board{
		dim:     dim,
		squares: make([]Color, dim*dim),
		toMove:  Black,
	}
	m := dim / 2
	b.set(m-1, m-1, White)
	b.set(m, m, White)
	b.set(m-1, m, Black)
	b.set(m, m-1, Black)
	return b, nil
}

func (b *Board) Dim() int {
	return b.dim
}

// ToMove returns the side whose turn it is.
func (b *Board) ToMove() Color {
	return b.toMove
}

// SetToMove overrides the turn flag.
func (b *Board) SetToMove(c Color) {
	b.toMove = c
}

// NumSquares is dim².
func (b *Board) NumSquares() int {
	return len(b.squares)
}

// Index converts a position to its row-major square index.
func (b *Board) Index(p Position) int {
	return p.Row*b.dim + p.Col
}

// PositionOf converts a row-major square index back to a position.
func (b *Board) PositionOf(idx int) Position {
	return Position{Row: idx / b.dim, Col: idx % b.dim}
}

func (b *Board) At(p Position) Color {
	return b.squares[b.Index(p)]
}

// SquareAt returns the content of the square with the given row-major index.
func (b *Board) SquareAt(idx int) Color {
	return b.squares[idx]
}

// SetAt places a colour on a square without any flipping. It is meant for
// setting up positions, not for playing moves.
func (b *Board) SetAt(p Position, c Color) {
	b.squares[b.Index(p)] = c
}

func (b *Board) set(row, col int, c Color) {
	b.squares[row*b.dim+col] = c
}

func (b *Board) get(row, col int) Color {
	return b.squares[row*b.dim+col]
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	cp := &Board{}
	b.CopyInto(cp)
	return cp
}

// CopyInto overwrites dst with the contents of b, reusing dst's grid storage
// when it is large enough.
func (b *Board) CopyInto(dst *Board) {
	if cap(dst.squares) < len(b.squares) {
		dst.squares = make([]Color, len(b.squares))
	}
	dst.squares = dst.squares[:len(b.squares)]
	copy(dst.squares, b.squares)
	dst.dim = b.dim
	dst.toMove = b.toMove
}

// Clear releases the grid contents; the board must be re-filled with
// CopyInto before it is used again.
func (b *Board) Clear() {
	clear(b.squares)
	b.toMove = Empty
}

// Equal reports whether both boards have the same squares and side to move.
func (b *Board) Equal(o *Board) bool {
	if b.dim != o.dim || b.toMove != o.toMove {
		return false
	}
	for i := range b.squares {
		if b.squares[i] != o.squares[i] {
			return false
		}
	}
	return true
}

// Pass hands the turn to the other side without placing a disc.
func (b *Board) Pass() {
	b.toMove = b.toMove.Opponent()
}

// CountDiscs counts the squares holding the given colour.
func (b *Board) CountDiscs(c Color) int {
	n := 0
	for _, sq := range b.squares {
		if sq == c {
			n++
		}
	}
	return n
}

// Score is black discs minus white discs.
func (b *Board) Score() int {
	s := 0
	for _, sq := range b.squares {
		switch sq {
		case Black:
			s++
		case White:
			s--
		}
	}
	return s
}

// Winner returns the side with more discs, or Empty for a draw. It does not
// check that the game is actually over.
func (b *Board) Winner() Color {
	s := b.Score()
	switch {
	case s > 0:
		return Black
	case s < 0:
		return White
	}
	return Empty
}

// IsGameOver is true when neither side has a legal move.
func (b *Board) IsGameOver() bool {
	return !b.HasLegalMove(Black) && !b.HasLegalMove(White)
}

// SwapColors returns a copy with every disc and the turn flag inverted.
func (b *Board) SwapColors() *Board {
	cp := b.Copy()
	for i, sq := range cp.squares {
		cp.squares[i] = sq.Opponent()
	}
	cp.toMove = cp.toMove.Opponent()
	return cp
}
