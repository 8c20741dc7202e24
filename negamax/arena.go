package negamax

import "github.com/JosephPrichard/othello-bot-sub001/board"

// arena holds one board, one move list and one flip list per ply of the
// current search path. A child is always rebuilt from a fresh copy of its
// parent, so the slot for a ply can be cleared as soon as the node above it
// has finished expanding.
type arena struct {
	boards []*board.Board
	moves  [][]board.Position
	flips  [][]int
}

func newArena(plies int) *arena {
	a := &arena{}
	a.grow(plies)
	return a
}

func (a *arena) grow(plies int) {
	for len(a.boards) < plies {
		a.boards = append(a.boards, &board.Board{})
		a.moves = append(a.moves, make([]board.Position, 0, 32))
		a.flips = append(a.flips, make([]int, 0, 32))
	}
}

func (a *arena) board(ply int) *board.Board {
	if ply >= len(a.boards) {
		a.grow(ply + 1)
	}
	return a.boards[ply]
}

// release drops the contents of the board at ply. Its storage is kept for
// the next sibling.
func (a *arena) release(ply int) {
	if ply < len(a.boards) {
		a.boards[ply].Clear()
	}
}
