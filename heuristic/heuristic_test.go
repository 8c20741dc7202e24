package heuristic

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/JosephPrichard/othello-bot-sub001/board"
)

func randomBoards(dim, games int) []*board.Board {
	seed := make([]byte, 32)
	seed[0] = byte(dim)
	rng := frand.NewCustom(seed, 64, 12)
	var out []*board.Board
	for g := 0; g < games; g++ {
		b, err := board.NewBoard(dim)
		if err != nil {
			panic(err)
		}
		for !b.IsGameOver() {
			out = append(out, b.Copy())
			moves := b.LegalMoves()
			if len(moves) == 0 {
				b.Pass()
				continue
			}
			if err := b.Play(moves[rng.Intn(len(moves))]); err != nil {
				panic(err)
			}
		}
		out = append(out, b.Copy())
	}
	return out
}

func TestSymmetryUnderColorSwap(t *testing.T) {
	is := is.New(t)
	evals := []Evaluator{DiscDifferential{}, NewPositional()}
	for _, dim := range []int{4, 6, 8} {
		for _, b := range randomBoards(dim, 10) {
			sw := b.SwapColors()
			for _, e := range evals {
				is.Equal(e.Evaluate(sw), -e.Evaluate(b))
			}
		}
	}
}

func TestPure(t *testing.T) {
	is := is.New(t)
	p := NewPositional()
	for _, b := range randomBoards(8, 3) {
		cp := b.Copy()
		v := p.Evaluate(b)
		is.Equal(p.Evaluate(b), v)
		is.True(b.Equal(cp))
	}
}

func TestStartingPositionIsEven(t *testing.T) {
	is := is.New(t)
	for _, dim := range []int{4, 6, 8, 10} {
		b, err := board.NewBoard(dim)
		is.NoErr(err)
		is.Equal(DiscDifferential{}.Evaluate(b), 0.0)
		is.Equal(NewPositional().Evaluate(b), 0.0)
	}
}

func TestSquareWeights(t *testing.T) {
	is := is.New(t)
	p := NewPositional()
	is.Equal(p.Weight(8, board.Position{Row: 0, Col: 0}), cornerWeight)
	is.Equal(p.Weight(8, board.Position{Row: 7, Col: 7}), cornerWeight)
	is.Equal(p.Weight(8, board.Position{Row: 1, Col: 1}), xSquareWeight)
	is.Equal(p.Weight(8, board.Position{Row: 6, Col: 1}), xSquareWeight)
	is.Equal(p.Weight(8, board.Position{Row: 0, Col: 1}), cSquareWeight)
	is.Equal(p.Weight(8, board.Position{Row: 6, Col: 7}), cSquareWeight)
	is.Equal(p.Weight(8, board.Position{Row: 0, Col: 3}), edgeWeight)
	is.Equal(p.Weight(8, board.Position{Row: 3, Col: 3}), centerWeight)
	is.Equal(p.Weight(6, board.Position{Row: 5, Col: 0}), cornerWeight)
}

func TestFinishedGameUsesDiscCount(t *testing.T) {
	is := is.New(t)
	p := NewPositional()
	full := board.MustDecode(board.Full4)
	is.Equal(p.Evaluate(full), -2*TerminalWeight)
	wipe := board.MustDecode(board.Wipeout4)
	is.Equal(p.Evaluate(wipe), 2*TerminalWeight)
}

func TestCornerOutweighsXSquare(t *testing.T) {
	is := is.New(t)
	p := NewPositional()
	c := board.MustDecode(board.Corner6)
	after, err := c.Apply(board.Position{Row: 0, Col: 0})
	is.NoErr(err)
	is.True(p.Evaluate(after) > p.Evaluate(c))
}

func TestByName(t *testing.T) {
	is := is.New(t)
	e, err := ByName("disc")
	is.NoErr(err)
	is.Equal(e.Name(), DiscDifferentialName)
	e, err = ByName("positional")
	is.NoErr(err)
	is.Equal(e.Name(), PositionalName)
	_, err = ByName("neural")
	is.True(errors.Is(err, ErrUnknownEvaluator))
}
