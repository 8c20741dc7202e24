// Package automatic plays engine-vs-engine games, for comparing search
// depths and evaluators against each other.
package automatic

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/JosephPrichard/othello-bot-sub001/agent"
	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/move"
)

var ErrInvalidOptions = errors.New("invalid autoplay options")

// Options describes a match between two players, A and B, that differ only
// in search depth. A takes black in even-numbered games and white in odd
// ones; both games of a pair start from the same random opening.
type Options struct {
	Games        int
	BoardSize    int
	DepthA       int
	DepthB       int
	OpeningPlies int
	// Parallel bounds the number of games in flight. Zero means one.
	Parallel int
	// Seed makes the openings reproducible. Zero picks a random seed.
	Seed uint64
}

func (o Options) validate() error {
	switch {
	case o.Games < 1:
		return fmt.Errorf("%w: need at least one game", ErrInvalidOptions)
	case o.DepthA < 1 || o.DepthB < 1:
		return fmt.Errorf("%w: depths must be at least 1", ErrInvalidOptions)
	case o.OpeningPlies < 0:
		return fmt.Errorf("%w: opening plies cannot be negative", ErrInvalidOptions)
	case o.Parallel < 0:
		return fmt.Errorf("%w: parallel cannot be negative", ErrInvalidOptions)
	}
	if _, err := board.NewBoard(o.BoardSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// GameResult is one finished game.
type GameResult struct {
	Index      int
	AIsBlack   bool
	Opening    string
	Moves      []string
	Final      *board.Board
	BlackDiscs int
	WhiteDiscs int
}

// Margin is A's disc count minus B's.
func (g GameResult) Margin() int {
	if g.AIsBlack {
		return g.BlackDiscs - g.WhiteDiscs
	}
	return g.WhiteDiscs - g.BlackDiscs
}

// GameRunner plays games through an agent service.
type GameRunner struct {
	service *agent.Service
	opts    Options

	logmu     sync.Mutex
	logStream io.Writer
}

func NewGameRunner(service *agent.Service, opts Options) (*GameRunner, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: nil service", ErrInvalidOptions)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Parallel == 0 {
		opts.Parallel = 1
	}
	return &GameRunner{service: service, opts: opts}, nil
}

// SetLogStream makes the runner write one CSV line per finished game to w.
func (r *GameRunner) SetLogStream(w io.Writer) {
	r.logStream = w
	if w != nil {
		fmt.Fprintln(w, "game,a-is-black,opening,moves,black,white,margin")
	}
}

// Openings returns one starting position per pair of games.
func (r *GameRunner) Openings() []*board.Board {
	var rng *frand.RNG
	if r.opts.Seed == 0 {
		rng = frand.New()
	} else {
		seed := make([]byte, 32)
		binary.LittleEndian.PutUint64(seed, r.opts.Seed)
		rng = frand.NewCustom(seed, 1024, 12)
	}
	pairs := (r.opts.Games + 1) / 2
	openings := make([]*board.Board, pairs)
	for i := range openings {
		b, _ := board.NewBoard(r.opts.BoardSize)
		for ply := 0; ply < r.opts.OpeningPlies && !b.IsGameOver(); ply++ {
			moves := b.LegalMoves()
			if len(moves) == 0 {
				b.Pass()
				continue
			}
			if err := b.Play(moves[rng.Intn(len(moves))]); err != nil {
				panic(err)
			}
		}
		openings[i] = b
	}
	return openings
}

func (r *GameRunner) depthFor(c board.Color, aIsBlack bool) int {
	if (c == board.Black) == aIsBlack {
		return r.opts.DepthA
	}
	return r.opts.DepthB
}

type searchResult struct {
	m   move.Move
	err error
}

func (r *GameRunner) bestMove(ctx context.Context, b *board.Board, depth int) (move.Move, error) {
	ch := make(chan searchResult, 1)
	_, err := r.service.FindBestMove(b, depth, func(m move.Move, err error) {
		ch <- searchResult{m, err}
	})
	if err != nil {
		return move.NoMove, err
	}
	select {
	case res := <-ch:
		return res.m, res.err
	case <-ctx.Done():
		return move.NoMove, ctx.Err()
	}
}

// PlayGame plays game idx out from opening.
func (r *GameRunner) PlayGame(ctx context.Context, idx int, opening *board.Board) (GameResult, error) {
	res := GameResult{Index: idx, AIsBlack: idx%2 == 0, Opening: opening.Encode()}
	b := opening.Copy()
	for !b.IsGameOver() {
		if !b.HasLegalMove(b.ToMove()) {
			b.Pass()
			res.Moves = append(res.Moves, "pass")
			continue
		}
		m, err := r.bestMove(ctx, b, r.depthFor(b.ToMove(), res.AIsBlack))
		if err != nil {
			return res, err
		}
		if m.IsNoMove() {
			return res, fmt.Errorf("no move returned for %v", b.Encode())
		}
		if err := b.Play(m.Position()); err != nil {
			return res, err
		}
		res.Moves = append(res.Moves, m.ShortDescription())
	}
	res.Final = b
	res.BlackDiscs = b.CountDiscs(board.Black)
	res.WhiteDiscs = b.CountDiscs(board.White)
	r.logGame(res)
	return res, nil
}

func (r *GameRunner) logGame(g GameResult) {
	log.Debug().Int("game", g.Index).
		Bool("a-is-black", g.AIsBlack).
		Int("black", g.BlackDiscs).
		Int("white", g.WhiteDiscs).
		Int("plies", len(g.Moves)).
		Msg("game-finished")
	if r.logStream == nil {
		return
	}
	r.logmu.Lock()
	defer r.logmu.Unlock()
	fmt.Fprintf(r.logStream, "%d,%v,%s,%s,%d,%d,%d\n", g.Index, g.AIsBlack, g.Opening,
		strings.Join(g.Moves, " "), g.BlackDiscs, g.WhiteDiscs, g.Margin())
}
