package zobrist

import (
	"lukechampine.com/frand"

	"github.com/JosephPrichard/othello-bot-sub001/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for an othello position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	whiteToMove uint64

	// posTable[square][0] is a black disc on that square, [1] a white one.
	posTable [][2]uint64

	boardDim int
}

// Initialize draws a fresh set of constants from the OS entropy source.
func (z *Zobrist) Initialize(boardDim int) {
	z.init(boardDim, func() uint64 { return frand.Uint64n(bignum) + 1 })
}

// InitializeWithSeed builds a reproducible table; the same seed always
// yields the same constants. Seeds shorter than 32 bytes are zero-padded.
func (z *Zobrist) InitializeWithSeed(boardDim int, seed []byte) {
	padded := make([]byte, 32)
	copy(padded, seed)
	rng := frand.NewCustom(padded, 1024, 12)
	z.init(boardDim, func() uint64 { return rng.Uint64n(bignum) + 1 })
}

func (z *Zobrist) init(boardDim int, next func() uint64) {
	z.boardDim = boardDim
	z.posTable = make([][2]uint64, boardDim*boardDim)
	for i := range z.posTable {
		z.posTable[i][0] = next()
		z.posTable[i][1] = next()
	}
	z.whiteToMove = next()
}

func (z *Zobrist) BoardDim() int {
	return z.boardDim
}

func colorIdx(c board.Color) int {
	if c == board.White {
		return 1
	}
	return 0
}

// Hash folds every occupied square and the side to move into a key.
func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	for i := 0; i < b.NumSquares(); i++ {
		sq := b.SquareAt(i)
		if sq == board.Empty {
			continue
		}
		key ^= z.posTable[i][colorIdx(sq)]
	}
	if b.ToMove() == board.White {
		key ^= z.whiteToMove
	}
	return key
}

// AddMove updates key for mover placing a disc on square and flipping the
// given squares, then hands the turn over. Calling it again with the same
// arguments undoes it.
func (z *Zobrist) AddMove(key uint64, square int, flips []int, mover board.Color) uint64 {
	ours := colorIdx(mover)
	theirs := colorIdx(mover.Opponent())
	key ^= z.posTable[square][ours]
	for _, f := range flips {
		// the disc goes from theirs to ours
		key ^= z.posTable[f][theirs]
		key ^= z.posTable[f][ours]
	}
	key ^= z.whiteToMove
	return key
}

// Pass toggles the side to move.
func (z *Zobrist) Pass(key uint64) uint64 {
	return key ^ z.whiteToMove
}
