package move

import (
	"fmt"
	"sort"

	"github.com/JosephPrichard/othello-bot-sub001/board"
)

// Move is a disc placement, optionally scored by the search. The heuristic
// is always from the point of view of the side that plays the move.
type Move struct {
	pos       board.Position
	heuristic float64
}

// NoMove is what the search returns when the side to move has nothing to
// play. Callers must check IsNoMove before applying a result.
var NoMove = Move{pos: board.NoPosition}

func NewMove(pos board.Position, heuristic float64) Move {
	return Move{pos: pos, heuristic: heuristic}
}

// NewUnscoredMove wraps a generated position that has not been searched.
func NewUnscoredMove(pos board.Position) Move {
	return Move{pos: pos}
}

func (m Move) Position() board.Position {
	return m.pos
}

func (m Move) Heuristic() float64 {
	return m.heuristic
}

func (m *Move) SetHeuristic(h float64) {
	m.heuristic = h
}

// IsNoMove reports whether m is the NoMove sentinel.
func (m Move) IsNoMove() bool {
	return m.pos == board.NoPosition
}

// ShortDescription is just the coordinate, e.g. "d3".
func (m Move) ShortDescription() string {
	if m.IsNoMove() {
		return "(none)"
	}
	return m.pos.String()
}

func (m Move) String() string {
	if m.IsNoMove() {
		return "<no move>"
	}
	return fmt.Sprintf("<%s heuristic: %.3f>", m.pos, m.heuristic)
}

// FromPositions converts generated positions into unscored moves.
func FromPositions(ps []board.Position) []Move {
	moves := make([]Move, len(ps))
	for i, p := range ps {
		moves[i] = NewUnscoredMove(p)
	}
	return moves
}

// ByHeuristic sorts best first.
type ByHeuristic []Move

func (a ByHeuristic) Len() int           { return len(a) }
func (a ByHeuristic) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByHeuristic) Less(i, j int) bool { return a[i].heuristic > a[j].heuristic }

// SortByHeuristic sorts moves in place, highest heuristic first. The sort
// is stable, so equal scores keep the order the moves were generated in.
func SortByHeuristic(moves []Move) {
	sort.Stable(ByHeuristic(moves))
}
