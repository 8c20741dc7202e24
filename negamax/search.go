package negamax

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/move"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// LogIteration is one completed iteration, as written to the log stream.
type LogIteration struct {
	Depth      int       `yaml:"depth"`
	Nodes      uint64    `yaml:"nodes"`
	ElapsedSec float64   `yaml:"elapsed-sec"`
	Best       string    `yaml:"best"`
	Moves      []LogMove `yaml:"moves,flow"`
}

type LogMove struct {
	Move  string  `yaml:"move"`
	Score float64 `yaml:"score"`
}

// FindBestMove searches the engine's board and returns the best move for
// the side to move, scored from its point of view. Of equally good moves
// the first one generated wins. If the side to move has no legal move the
// result is move.NoMove.
//
// If ctx is cancelled the result of the last completed iteration is
// returned together with ctx.Err().
func (e *Engine) FindBestMove(ctx context.Context) (move.Move, error) {
	moves, err := e.iterativelyDeepen(ctx, false)
	if len(moves) == 0 {
		return move.NoMove, err
	}
	return moves[0], err
}

// FindRankedMoves scores every legal move exactly and returns them best
// first; equal scores keep generation order. It is slower than
// FindBestMove since no root move can be cut off.
func (e *Engine) FindRankedMoves(ctx context.Context) ([]move.Move, error) {
	return e.iterativelyDeepen(ctx, true)
}

func (e *Engine) iterativelyDeepen(ctx context.Context, ranked bool) ([]move.Move, error) {
	tstart := time.Now()
	e.nodes.Store(0)
	rootMoves := e.board.LegalMoves()
	if len(rootMoves) == 0 {
		log.Debug().Str("board", e.board.Encode()).Msg("no-legal-moves")
		return nil, nil
	}
	if e.transpositionTableOptim {
		e.generation = e.ttable.NewSearch()
	}
	e.arena.grow(e.maxDepth + 2)
	root := e.arena.board(0)
	e.board.CopyInto(root)
	rootKey := e.zobrist.Hash(root)

	start := 1
	if !e.iterativeDeepeningOptim {
		start = e.maxDepth
	}
	var completed []move.Move
	var err error
	depth := 0
	for d := start; d <= e.maxDepth; d++ {
		if err = ctx.Err(); err != nil {
			break
		}
		var results []move.Move
		results, err = e.searchRoot(ctx, rootKey, rootMoves, d, ranked)
		if err != nil {
			break
		}
		completed = results
		depth = d
		log.Debug().Int("depth", d).
			Str("best", completed[0].ShortDescription()).
			Float64("score", completed[0].Heuristic()).
			Uint64("nodes", e.nodes.Load()).
			Msg("deepening-iteratively")
		if e.logStream != nil {
			e.writeIteration(d, completed, tstart)
		}
	}

	evt := log.Debug().
		Int("depth", depth).
		Bool("ranked", ranked).
		Uint64("nodes", e.nodes.Load()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds())
	if e.transpositionTableOptim {
		stats := e.ttable.Stats()
		evt = evt.Uint64("ttable-created", stats.Created).
			Uint64("ttable-lookups", stats.Lookups).
			Uint64("ttable-hits", stats.Hits).
			Uint64("ttable-t2collisions", stats.T2Collisions)
	}
	if len(completed) > 0 {
		evt = evt.Str("best", completed[0].ShortDescription()).
			Float64("score", completed[0].Heuristic())
	}
	evt.Msg("search-returning")
	return completed, err
}

// searchRoot runs one full iteration. In best-move mode alpha is raised to
// the best score so far, so only the returned first move is exact.
func (e *Engine) searchRoot(ctx context.Context, rootKey uint64, rootMoves []board.Position,
	depth int, ranked bool) ([]move.Move, error) {

	root := e.arena.board(0)
	mover := root.ToMove()
	α, β := -HugeNumber, HugeNumber
	scored := make([]move.Move, 0, len(rootMoves))
	bestIdx := 0
	bestValue := -HugeNumber

	for i, p := range rootMoves {
		child := e.arena.board(1)
		root.CopyInto(child)
		flips, err := child.PlayInto(p, e.arena.flips[1][:0])
		if err != nil {
			return nil, err
		}
		e.arena.flips[1] = flips
		childKey := e.zobrist.AddMove(rootKey, root.Index(p), flips, mover)

		var value float64
		if ranked {
			value, err = e.negamax(ctx, 1, childKey, depth-1, -HugeNumber, HugeNumber)
		} else {
			value, err = e.negamax(ctx, 1, childKey, depth-1, -β, -α)
		}
		if err != nil {
			return nil, err
		}
		score := -value
		scored = append(scored, move.NewMove(p, score))
		if score > bestValue {
			bestValue = score
			bestIdx = i
			if !ranked {
				α = max(α, score)
			}
		}
	}
	e.arena.release(1)

	if e.transpositionTableOptim {
		// The best root score is exact in both modes.
		e.ttable.store(rootKey, TableEntry{
			score:      bestValue,
			depth:      int16(depth),
			play:       int16(root.Index(rootMoves[bestIdx])),
			flag:       TTExact,
			generation: e.generation,
		})
	}
	if ranked {
		move.SortByHeuristic(scored)
		return scored, nil
	}
	return []move.Move{scored[bestIdx]}, nil
}

func (e *Engine) negamax(ctx context.Context, ply int, nodeKey uint64, depth int, α, β float64) (float64, error) {
	if e.nodes.Add(1)%checkInterval == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	node := e.arena.board(ply)
	if depth == 0 {
		return e.evaluate(node), nil
	}

	alphaOrig := α
	ttMove := noSquare
	if e.transpositionTableOptim {
		if entry, ok := e.ttable.lookup(nodeKey, depth); ok && entry.generation == e.generation {
			score := entry.score
			switch entry.flag {
			case TTExact:
				return score, nil
			case TTLower:
				α = max(α, score)
			case TTUpper:
				β = min(β, score)
			}
			if α >= β {
				return score, nil
			}
			ttMove = entry.Move()
		} else if entry, ok := e.ttable.probe(nodeKey); ok {
			// too shallow or from another search; only good for ordering.
			ttMove = entry.Move()
		}
	}

	mover := node.ToMove()
	children := node.LegalMovesInto(e.arena.moves[ply][:0])
	e.arena.moves[ply] = children

	bestValue := -HugeNumber
	bestMove := noSquare
	child := e.arena.board(ply + 1)

	if len(children) == 0 {
		if !node.HasLegalMove(mover.Opponent()) {
			return e.evaluate(node), nil
		}
		// forced pass; it still costs a ply.
		node.CopyInto(child)
		child.Pass()
		value, err := e.negamax(ctx, ply+1, e.zobrist.Pass(nodeKey), depth-1, -β, -α)
		if err != nil {
			return 0, err
		}
		bestValue = -value
	} else {
		if ttMove != noSquare {
			hashMoveFirst(children, node.PositionOf(ttMove))
		}
		for _, p := range children {
			node.CopyInto(child)
			flips, err := child.PlayInto(p, e.arena.flips[ply+1][:0])
			if err != nil {
				return 0, err
			}
			e.arena.flips[ply+1] = flips
			sq := node.Index(p)
			childKey := e.zobrist.AddMove(nodeKey, sq, flips, mover)
			value, err := e.negamax(ctx, ply+1, childKey, depth-1, -β, -α)
			if err != nil {
				return 0, err
			}
			if -value > bestValue {
				bestValue = -value
				bestMove = sq
			}
			α = max(α, bestValue)
			if α >= β {
				break // beta cut-off
			}
		}
	}
	e.arena.release(ply + 1)

	if e.transpositionTableOptim {
		entry := TableEntry{
			score:      bestValue,
			depth:      int16(depth),
			play:       int16(bestMove),
			generation: e.generation,
		}
		if bestValue <= alphaOrig {
			entry.flag = TTUpper
		} else if bestValue >= β {
			entry.flag = TTLower
		} else {
			entry.flag = TTExact
		}
		e.ttable.store(nodeKey, entry)
	}
	return bestValue, nil
}

// hashMoveFirst moves p to the front of moves, keeping the rest in order.
func hashMoveFirst(moves []board.Position, p board.Position) {
	for i, m := range moves {
		if m == p {
			copy(moves[1:i+1], moves[:i])
			moves[0] = p
			return
		}
	}
}

// evaluate scores b for the side to move.
func (e *Engine) evaluate(b *board.Board) float64 {
	v := e.evaluator.Evaluate(b)
	if b.ToMove() == board.White {
		return -v
	}
	return v
}

// PrincipalVariation follows best moves stored in the transposition table
// from the engine's board, up to maxLen plies. Forced passes are shown as
// board.NoPosition. It is only meaningful right after a search.
func (e *Engine) PrincipalVariation(maxLen int) []board.Position {
	if !e.transpositionTableOptim {
		return nil
	}
	b := e.board.Copy()
	key := e.zobrist.Hash(b)
	var pv []board.Position
	var flips []int
	for len(pv) < maxLen {
		if !b.HasLegalMove(b.ToMove()) {
			if b.IsGameOver() {
				break
			}
			b.Pass()
			key = e.zobrist.Pass(key)
			pv = append(pv, board.NoPosition)
			continue
		}
		entry, ok := e.ttable.probe(key)
		if !ok || entry.Move() == noSquare {
			break
		}
		p := b.PositionOf(entry.Move())
		if !b.IsLegal(p) {
			// a collision; the line ends here.
			break
		}
		mover := b.ToMove()
		var err error
		flips, err = b.PlayInto(p, flips[:0])
		if err != nil {
			break
		}
		key = e.zobrist.AddMove(key, b.Index(p), flips, mover)
		pv = append(pv, p)
	}
	return pv
}

func (e *Engine) writeIteration(depth int, moves []move.Move, tstart time.Time) {
	it := LogIteration{
		Depth:      depth,
		Nodes:      e.nodes.Load(),
		ElapsedSec: time.Since(tstart).Seconds(),
		Best:       moves[0].ShortDescription(),
	}
	for _, m := range moves {
		it.Moves = append(it.Moves, LogMove{Move: m.ShortDescription(), Score: m.Heuristic()})
	}
	out, err := yaml.Marshal([]LogIteration{it})
	if err != nil {
		log.Error().Err(err).Msg("marshalling log")
		return
	}
	if _, err := e.logStream.Write(out); err != nil {
		log.Error().Err(err).Msg("writing log")
	}
}
