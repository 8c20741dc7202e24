package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JosephPrichard/othello-bot-sub001/config"
	"github.com/JosephPrichard/othello-bot-sub001/move"
	"github.com/JosephPrichard/othello-bot-sub001/negamax"
)

// searchWorker owns one engine per board dimension and, unless the table is
// shared, its own transposition table.
type searchWorker struct {
	id      int
	service *Service
	table   *negamax.TranspositionTable
	engines map[int]*negamax.Engine
}

func newSearchWorker(s *Service, id int) *searchWorker {
	w := &searchWorker{id: id, service: s, engines: make(map[int]*negamax.Engine)}
	if s.sharedTable != nil {
		w.table = s.sharedTable
	} else if s.cfg.GetBool(config.ConfigTTableEnabled) {
		w.table = s.newTable()
	}
	return w
}

// run processes jobs until the queue is closed and empty.
func (w *searchWorker) run() error {
	for {
		j, ok := w.service.queue.pop()
		if !ok {
			log.Debug().Int("worker", w.id).Msg("worker shutting down")
			return nil
		}
		w.process(j)
		w.service.completed.Add(1)
	}
}

func (w *searchWorker) engineFor(j *Job) (*negamax.Engine, error) {
	dim := j.Board.Dim()
	e, ok := w.engines[dim]
	if !ok {
		var err error
		e, err = negamax.NewEngineFromBoard(j.Board, j.Depth)
		if err != nil {
			return nil, err
		}
		cfg := w.service.cfg
		e.SetEvaluator(w.service.evaluator)
		e.SetIterativeDeepening(cfg.GetBool(config.ConfigIterativeDeepening))
		e.SetTranspositionTableOptim(w.table != nil)
		if w.table != nil {
			e.SetTranspositionTable(w.table)
		}
		if err := e.SetZobrist(w.service.zobristFor(dim)); err != nil {
			return nil, err
		}
		w.engines[dim] = e
	}
	if err := e.SetBoard(j.Board); err != nil {
		return nil, err
	}
	if err := e.SetMaxDepth(j.Depth); err != nil {
		return nil, err
	}
	return e, nil
}

func (w *searchWorker) process(j *Job) {
	called := false
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job-id", j.ID).Int("worker", w.id).
				Interface("panic", r).Msg("search-panicked")
			if !called {
				called = true
				w.deliver(j, func() { j.fail(fmt.Errorf("%w: %v", ErrSearchPanic, r)) })
			}
		}
	}()

	tstart := time.Now()
	log.Debug().Str("job-id", j.ID).Int("worker", w.id).
		Dur("queued", tstart.Sub(j.Submitted)).
		Msg("claimed job")

	e, err := w.engineFor(j)
	if err != nil {
		called = true
		w.deliver(j, func() { j.fail(err) })
		return
	}
	ctx := context.Background()
	switch j.Kind {
	case BestMoveJob:
		m, err := e.FindBestMove(ctx)
		w.logDone(j, e, tstart, m)
		called = true
		w.deliver(j, func() { j.onBestMove(m, err) })
	case RankedMovesJob:
		moves, err := e.FindRankedMoves(ctx)
		best := move.NoMove
		if len(moves) > 0 {
			best = moves[0]
		}
		w.logDone(j, e, tstart, best)
		called = true
		w.deliver(j, func() { j.onRankedMoves(moves, err) })
	}
}

// deliver runs a callback, keeping a panic in it from taking down the worker.
func (w *searchWorker) deliver(j *Job, cb func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job-id", j.ID).Int("worker", w.id).
				Interface("panic", r).Msg("callback-panicked")
		}
	}()
	cb()
}

func (w *searchWorker) logDone(j *Job, e *negamax.Engine, tstart time.Time, best move.Move) {
	log.Debug().Str("job-id", j.ID).
		Int("worker", w.id).
		Str("kind", j.Kind.String()).
		Uint64("board-checksum", j.Board.Checksum()).
		Int("depth", j.Depth).
		Str("best", best.ShortDescription()).
		Uint64("nodes", e.Nodes()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("finished job")
}
