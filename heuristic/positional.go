package heuristic

import (
	"github.com/JosephPrichard/othello-bot-sub001/board"
)

const (
	// TerminalWeight scales the final disc count of a finished game so that
	// any decided result outweighs every positional estimate.
	TerminalWeight = 1000.0
	// MobilityWeight is the value of one extra legal move.
	MobilityWeight = 2.0

	cornerWeight    = 20.0
	xSquareWeight   = -7.0
	cSquareWeight   = -3.0
	edgeWeight      = 2.0
	innerRingWeight = -1.0
	centerWeight    = 1.0
)

// Positional weighs each disc by where it sits and adds a mobility term.
// Corners are worth the most; the squares that give corners away (X-squares
// diagonally next to a corner, C-squares beside one on the edge) are
// penalised.
type Positional struct {
	// weights[dim] is the row-major square-weight table for that dimension.
	weights map[int][]float64
}

func NewPositional() *Positional {
	p := &Positional{weights: make(map[int][]float64)}
	for dim := board.MinDim; dim <= board.MaxDim; dim += 2 {
		p.weights[dim] = squareWeights(dim)
	}
	return p
}

func (p *Positional) Name() string {
	return PositionalName
}

func (p *Positional) Evaluate(b *board.Board) float64 {
	black := b.HasLegalMove(board.Black)
	white := b.HasLegalMove(board.White)
	if !black && !white {
		return TerminalWeight * float64(b.Score())
	}
	weights := p.weights[b.Dim()]
	if weights == nil {
		weights = squareWeights(b.Dim())
	}
	score := 0.0
	for i, w := range weights {
		switch b.SquareAt(i) {
		case board.Black:
			score += w
		case board.White:
			score -= w
		}
	}
	mobility := b.Mobility(board.Black) - b.Mobility(board.White)
	return score + MobilityWeight*float64(mobility)
}

// Weight returns the weight of a square on a dim×dim board.
func (p *Positional) Weight(dim int, pos board.Position) float64 {
	weights := p.weights[dim]
	if weights == nil {
		weights = squareWeights(dim)
	}
	return weights[pos.Row*dim+pos.Col]
}

func squareWeights(dim int) []float64 {
	w := make([]float64, dim*dim)
	last := dim - 1
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			w[row*dim+col] = classify(row, col, last)
		}
	}
	return w
}

func classify(row, col, last int) float64 {
	// distance to the nearest edge along each axis
	dr := min(row, last-row)
	dc := min(col, last-col)
	switch {
	case dr == 0 && dc == 0:
		return cornerWeight
	case dr == 1 && dc == 1:
		return xSquareWeight
	case (dr == 0 && dc == 1) || (dr == 1 && dc == 0):
		return cSquareWeight
	case dr == 0 || dc == 0:
		return edgeWeight
	case dr == 1 || dc == 1:
		return innerRingWeight
	}
	return centerWeight
}
