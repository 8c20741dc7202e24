package negamax

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/heuristic"
	"github.com/JosephPrichard/othello-bot-sub001/zobrist"
)

// HugeNumber bounds every score. It is finite so that negating and
// comparing it stays well defined.
const HugeNumber = 1e15

// checkInterval is how many nodes are visited between context checks.
const checkInterval = 1024

var (
	ErrInvalidDepth = errors.New("search depth must be at least 1")
	ErrNilBoard     = errors.New("board is nil")
)

// Engine runs iterative-deepening alpha-beta searches on one board. It is
// not safe for concurrent use; give every goroutine its own engine. The
// transposition table may be shared if it is in multi-threaded mode.
type Engine struct {
	board    *board.Board
	maxDepth int

	evaluator heuristic.Evaluator
	zobrist   *zobrist.Zobrist
	ttable    *TranspositionTable

	transpositionTableOptim bool
	iterativeDeepeningOptim bool

	arena      *arena
	generation uint32
	nodes      atomic.Uint64

	logStream io.Writer
}

// NewEngine returns an engine for the starting position of a boardDim×boardDim
// game.
func NewEngine(boardDim, maxDepth int) (*Engine, error) {
	b, err := board.NewBoard(boardDim)
	if err != nil {
		return nil, err
	}
	return newEngine(b, maxDepth)
}

// NewEngineFromBoard returns an engine for a copy of b.
func NewEngineFromBoard(b *board.Board, maxDepth int) (*Engine, error) {
	if b == nil {
		return nil, ErrNilBoard
	}
	return newEngine(b.Copy(), maxDepth)
}

func newEngine(b *board.Board, maxDepth int) (*Engine, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, maxDepth)
	}
	e := &Engine{
		board:                   b,
		maxDepth:                maxDepth,
		evaluator:               heuristic.NewPositional(),
		transpositionTableOptim: true,
		iterativeDeepeningOptim: true,
		arena:                   newArena(maxDepth + 2),
	}
	e.zobrist = &zobrist.Zobrist{}
	e.zobrist.Initialize(b.Dim())
	e.ttable = NewTranspositionTable(DefaultClusters)
	return e, nil
}

// SetBoard replaces the position to search with a copy of b. The zobrist
// table is rebuilt if the dimension changes.
func (e *Engine) SetBoard(b *board.Board) error {
	if b == nil {
		return ErrNilBoard
	}
	e.board = b.Copy()
	if e.zobrist == nil || e.zobrist.BoardDim() != b.Dim() {
		e.zobrist = &zobrist.Zobrist{}
		e.zobrist.Initialize(b.Dim())
	}
	return nil
}

func (e *Engine) SetMaxDepth(d int) error {
	if d < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, d)
	}
	e.maxDepth = d
	e.arena.grow(d + 2)
	return nil
}

func (e *Engine) SetEvaluator(ev heuristic.Evaluator) {
	e.evaluator = ev
}

// SetZobrist installs a hasher, for instance one shared by every engine
// that uses the same transposition table. Its dimension must match the
// board's.
func (e *Engine) SetZobrist(z *zobrist.Zobrist) error {
	if z.BoardDim() != e.board.Dim() {
		return fmt.Errorf("zobrist table is for %d, board is %d", z.BoardDim(), e.board.Dim())
	}
	e.zobrist = z
	return nil
}

func (e *Engine) SetTranspositionTable(tt *TranspositionTable) {
	e.ttable = tt
}

func (e *Engine) SetTranspositionTableOptim(tt bool) {
	e.transpositionTableOptim = tt
}

func (e *Engine) SetIterativeDeepening(id bool) {
	e.iterativeDeepeningOptim = id
}

// SetLogStream makes every completed iteration get written to w as YAML.
func (e *Engine) SetLogStream(w io.Writer) {
	e.logStream = w
}

func (e *Engine) Board() *board.Board {
	return e.board
}

func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

func (e *Engine) Evaluator() heuristic.Evaluator {
	return e.evaluator
}

func (e *Engine) TranspositionTable() *TranspositionTable {
	return e.ttable
}

func (e *Engine) Zobrist() *zobrist.Zobrist {
	return e.zobrist
}

// Nodes is the number of positions visited by the current or last search.
func (e *Engine) Nodes() uint64 {
	return e.nodes.Load()
}
