package agent

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/config"
	"github.com/JosephPrichard/othello-bot-sub001/heuristic"
	"github.com/JosephPrichard/othello-bot-sub001/move"
	"github.com/JosephPrichard/othello-bot-sub001/negamax"
	"github.com/JosephPrichard/othello-bot-sub001/zobrist"
)

var (
	ErrServiceClosed = errors.New("agent service is closed")
	ErrNilBoard      = errors.New("board is nil")
	ErrInvalidDepth  = errors.New("search depth must be at least 1")
	ErrNilCallback   = errors.New("callback is nil")
	ErrSearchPanic   = errors.New("search panicked")
)

// Service runs searches on a fixed pool of workers. Submitting never
// blocks: requests wait in an unbounded queue and every callback is called
// exactly once, on a worker goroutine, when its search is done.
type Service struct {
	cfg       *config.Config
	evaluator heuristic.Evaluator
	queue     *jobQueue
	group     errgroup.Group
	workers   int

	// sharedTable is nil unless ttable-shared is set.
	sharedTable *negamax.TranspositionTable

	zmu      sync.Mutex
	zobrists map[int]*zobrist.Zobrist

	completed atomic.Uint64
}

// NewService starts agent-workers workers configured from cfg. A nil cfg
// means the defaults.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ev, err := heuristic.ByName(cfg.GetString(config.ConfigEvaluator))
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:       cfg,
		evaluator: ev,
		queue:     newJobQueue(),
		workers:   cfg.GetInt(config.ConfigAgentWorkers),
		zobrists:  make(map[int]*zobrist.Zobrist),
	}
	if cfg.GetBool(config.ConfigTTableEnabled) && cfg.GetBool(config.ConfigTTableShared) {
		s.sharedTable = s.newTable()
		s.sharedTable.SetMultiThreadedMode()
	}
	log.Info().Int("workers", s.workers).
		Str("evaluator", ev.Name()).
		Bool("ttable-shared", s.sharedTable != nil).
		Msg("starting-agent-service")

	for i := 0; i < s.workers; i++ {
		w := newSearchWorker(s, i)
		s.group.Go(w.run)
	}
	return s, nil
}

// newTable sizes a table from the config.
func (s *Service) newTable() *negamax.TranspositionTable {
	if n := s.cfg.GetInt(config.ConfigTTableClusters); n > 0 {
		return negamax.NewTranspositionTable(n)
	}
	tt := &negamax.TranspositionTable{}
	tt.Reset(s.cfg.GetFloat64(config.ConfigTTableMemoryFraction))
	return tt
}

// zobristFor returns the hasher every worker uses for boards of dim, so
// that keys agree across a shared table.
func (s *Service) zobristFor(dim int) *zobrist.Zobrist {
	s.zmu.Lock()
	defer s.zmu.Unlock()
	z, ok := s.zobrists[dim]
	if !ok {
		z = &zobrist.Zobrist{}
		z.Initialize(dim)
		s.zobrists[dim] = z
	}
	return z
}

func validate(b *board.Board, depth int, hasCallback bool) error {
	if b == nil {
		return ErrNilBoard
	}
	if depth < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	if !hasCallback {
		return ErrNilCallback
	}
	return nil
}

func (s *Service) submit(j *Job) (string, error) {
	j.ID = uuid.NewString()
	j.Submitted = time.Now()
	if err := s.queue.push(j); err != nil {
		return "", err
	}
	log.Debug().Str("job-id", j.ID).
		Str("kind", j.Kind.String()).
		Uint64("board-checksum", j.Board.Checksum()).
		Int("depth", j.Depth).
		Msg("queued-job")
	return j.ID, nil
}

// FindBestMove queues a best-move search of a copy of b. The returned id
// identifies the request in logs. An error is only returned for malformed
// input or a closed service, and then cb is never called.
func (s *Service) FindBestMove(b *board.Board, depth int, cb func(move.Move, error)) (string, error) {
	if err := validate(b, depth, cb != nil); err != nil {
		return "", err
	}
	return s.submit(&Job{Kind: BestMoveJob, Board: b.Copy(), Depth: depth, onBestMove: cb})
}

// FindRankedMoves is FindBestMove for the full ranked move list.
func (s *Service) FindRankedMoves(b *board.Board, depth int, cb func([]move.Move, error)) (string, error) {
	if err := validate(b, depth, cb != nil); err != nil {
		return "", err
	}
	return s.submit(&Job{Kind: RankedMovesJob, Board: b.Copy(), Depth: depth, onRankedMoves: cb})
}

// Close stops accepting requests, lets the workers finish everything that
// is already queued, and waits for them.
func (s *Service) Close() error {
	s.queue.close()
	err := s.group.Wait()
	log.Info().Uint64("completed", s.completed.Load()).Msg("agent-service-closed")
	return err
}

func (s *Service) Workers() int {
	return s.workers
}

// Pending is the number of queued requests no worker has picked up yet.
func (s *Service) Pending() int {
	return s.queue.len()
}

// Completed counts requests whose callback has returned.
func (s *Service) Completed() uint64 {
	return s.completed.Load()
}
