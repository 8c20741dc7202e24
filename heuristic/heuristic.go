package heuristic

import (
	"errors"
	"fmt"

	"github.com/JosephPrichard/othello-bot-sub001/board"
)

var ErrUnknownEvaluator = errors.New("unknown evaluator")

const (
	DiscDifferentialName = "disc"
	PositionalName       = "positional"
)

// Evaluator is a static evaluation of a position. Positive values favor
// black, negative favor white. Implementations must be pure: the same board
// always evaluates to the same value, and swapping every disc (and the turn)
// negates it.
type Evaluator interface {
	Evaluate(b *board.Board) float64
	Name() string
}

// ByName returns the evaluator registered under name.
func ByName(name string) (Evaluator, error) {
	switch name {
	case DiscDifferentialName:
		return DiscDifferential{}, nil
	case PositionalName, "":
		return NewPositional(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluator, name)
}

// DiscDifferential is the bare material count, black minus white.
type DiscDifferential struct{}

func (DiscDifferential) Evaluate(b *board.Board) float64 {
	return float64(b.Score())
}

func (DiscDifferential) Name() string {
	return DiscDifferentialName
}
