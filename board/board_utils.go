package board

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash"
)

// Encode returns the textual form of the board: one turn character (B or W)
// followed by dim² digits in row-major order, 0 for empty, 1 for black and
// 2 for white.
func (b *Board) Encode() string {
	var sb strings.Builder
	sb.Grow(1 + len(b.squares))
	if b.toMove == White {
		sb.WriteByte('W')
	} else {
		sb.WriteByte('B')
	}
	for _, sq := range b.squares {
		sb.WriteByte('0' + byte(sq))
	}
	return sb.String()
}

// Decode parses the output of Encode. Whitespace anywhere in the input is
// ignored, so multi-line layouts are fine.
func Decode(s string) (*Board, error) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if stripped == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedEncoding)
	}
	var toMove Color
	switch stripped[0] {
	case 'B', 'b':
		toMove = Black
	case 'W', 'w':
		toMove = White
	default:
		return nil, fmt.Errorf("%w: turn must be B or W, got %q", ErrMalformedEncoding, stripped[0])
	}
	digits := stripped[1:]
	n := len(digits)
	dim := int(math.Sqrt(float64(n)))
	for dim*dim > n {
		dim--
	}
	for (dim+1)*(dim+1) <= n {
		dim++
	}
	if n == 0 || dim*dim != n {
		return nil, fmt.Errorf("%w: %d squares is not a perfect square", ErrMalformedEncoding, n)
	}
	if dim > MaxDim {
		return nil, fmt.Errorf("%w: dimension %d exceeds %d", ErrMalformedEncoding, dim, MaxDim)
	}
	squares := make([]Color, n)
	for i := 0; i < n; i++ {
		c := digits[i]
		if c < '0' || c > '2' {
			return nil, fmt.Errorf("%w: bad square %q at index %d", ErrMalformedEncoding, c, i)
		}
		squares[i] = Color(c - '0')
	}
	return &Board{dim: dim, squares: squares, toMove: toMove}, nil
}

// Checksum is a stable 64-bit id of the encoded board, for logs and caches
// that outlive a single process. It is unrelated to the zobrist key.
func (b *Board) Checksum() uint64 {
	return xxhash.Sum64([]byte(b.Encode()))
}

func (b *Board) String() string {
	return b.Encode()
}

// ToDisplayText renders the board with coordinates, for the shell.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < b.dim; col++ {
		fmt.Fprintf(&sb, " %c", 'a'+col)
	}
	sb.WriteString("\n")
	for row := 0; row < b.dim; row++ {
		fmt.Fprintf(&sb, "%2d ", row+1)
		for col := 0; col < b.dim; col++ {
			var ch string
			switch b.get(row, col) {
			case Black:
				ch = "X"
			case White:
				ch = "O"
			default:
				ch = "."
			}
			sb.WriteString(" " + ch)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "black (X) %d - white (O) %d; %v to move\n",
		b.CountDiscs(Black), b.CountDiscs(White), b.toMove)
	return sb.String()
}
