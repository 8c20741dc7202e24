package move

import (
	"testing"

	"github.com/matryer/is"

	"github.com/JosephPrichard/othello-bot-sub001/board"
)

func TestNoMove(t *testing.T) {
	is := is.New(t)
	is.True(NoMove.IsNoMove())
	is.Equal(NoMove.Position(), board.NoPosition)
	is.Equal(NoMove.ShortDescription(), "(none)")

	m := NewMove(board.Position{Row: 2, Col: 3}, 1.5)
	is.True(!m.IsNoMove())
	is.Equal(m.ShortDescription(), "d3")
	is.Equal(m.String(), "<d3 heuristic: 1.500>")
}

func TestSortByHeuristicStable(t *testing.T) {
	is := is.New(t)
	moves := []Move{
		NewMove(board.Position{Row: 0, Col: 0}, 1),
		NewMove(board.Position{Row: 0, Col: 1}, 3),
		NewMove(board.Position{Row: 0, Col: 2}, 1),
		NewMove(board.Position{Row: 0, Col: 3}, -2),
		NewMove(board.Position{Row: 0, Col: 4}, 3),
	}
	SortByHeuristic(moves)
	descs := make([]string, len(moves))
	for i, m := range moves {
		descs[i] = m.ShortDescription()
	}
	is.Equal(descs, []string{"b1", "e1", "a1", "c1", "d1"})
}

func TestFromPositions(t *testing.T) {
	is := is.New(t)
	b, err := board.NewBoard(8)
	is.NoErr(err)
	moves := FromPositions(b.LegalMoves())
	is.Equal(len(moves), 4)
	for _, m := range moves {
		is.Equal(m.Heuristic(), 0.0)
		is.True(b.IsLegal(m.Position()))
	}
}
