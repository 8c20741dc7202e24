package automatic

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/JosephPrichard/othello-bot-sub001/agent"
	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newService(t *testing.T) *agent.Service {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigAgentWorkers, 2)
	cfg.Set(config.ConfigTTableClusters, 1<<10)
	s, err := agent.NewService(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testOptions() Options {
	return Options{
		Games:        4,
		BoardSize:    6,
		DepthA:       2,
		DepthB:       1,
		OpeningPlies: 2,
		Parallel:     2,
		Seed:         7,
	}
}

func TestPlayMatch(t *testing.T) {
	is := is.New(t)
	r, err := NewGameRunner(newService(t), testOptions())
	is.NoErr(err)
	var buf bytes.Buffer
	r.SetLogStream(&buf)

	results, err := r.PlayMatch(context.Background())
	is.NoErr(err)
	is.Equal(len(results), 4)
	for i, g := range results {
		is.Equal(g.Index, i)
		is.Equal(g.AIsBlack, i%2 == 0)
		is.True(g.Final.IsGameOver())
		is.Equal(g.BlackDiscs, g.Final.CountDiscs(board.Black))
		is.Equal(g.WhiteDiscs, g.Final.CountDiscs(board.White))
		is.True(len(g.Moves) > 0)
	}
	// both games of a pair share an opening.
	is.Equal(results[0].Opening, results[1].Opening)
	is.Equal(results[2].Opening, results[3].Opening)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(len(lines), 5)
	is.True(strings.HasPrefix(lines[0], "game,"))

	s := Summarize(results)
	is.Equal(s.Games, 4)
	is.Equal(s.WinsA+s.WinsB+s.Draws, 4)
}

func TestMatchIsReproducible(t *testing.T) {
	is := is.New(t)
	s := newService(t)
	play := func() []GameResult {
		r, err := NewGameRunner(s, testOptions())
		is.NoErr(err)
		results, err := r.PlayMatch(context.Background())
		is.NoErr(err)
		return results
	}
	first, second := play(), play()
	is.Equal(len(first), len(second))
	for i := range first {
		is.Equal(first[i].Opening, second[i].Opening)
		is.Equal(first[i].Moves, second[i].Moves)
	}
}

func TestOpeningPlies(t *testing.T) {
	is := is.New(t)
	opts := testOptions()
	opts.Games = 5
	opts.OpeningPlies = 3
	r, err := NewGameRunner(newService(t), opts)
	is.NoErr(err)
	openings := r.Openings()
	is.Equal(len(openings), 3)
	for _, b := range openings {
		is.Equal(b.CountDiscs(board.Black)+b.CountDiscs(board.White), 7)
		is.Equal(b.ToMove(), board.White)
	}
}

func TestInvalidOptions(t *testing.T) {
	is := is.New(t)
	s := newService(t)
	for _, mod := range []func(*Options){
		func(o *Options) { o.Games = 0 },
		func(o *Options) { o.DepthA = 0 },
		func(o *Options) { o.DepthB = -1 },
		func(o *Options) { o.BoardSize = 5 },
		func(o *Options) { o.OpeningPlies = -1 },
		func(o *Options) { o.Parallel = -2 },
	} {
		opts := testOptions()
		mod(&opts)
		_, err := NewGameRunner(s, opts)
		is.True(errors.Is(err, ErrInvalidOptions))
	}
	_, err := NewGameRunner(nil, testOptions())
	is.True(errors.Is(err, ErrInvalidOptions))
}

func TestCancelledMatch(t *testing.T) {
	is := is.New(t)
	r, err := NewGameRunner(newService(t), testOptions())
	is.NoErr(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := r.PlayMatch(ctx)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(len(results), 0)
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	results := []GameResult{
		{AIsBlack: true, BlackDiscs: 20, WhiteDiscs: 16},
		{AIsBlack: false, BlackDiscs: 19, WhiteDiscs: 17},
		{AIsBlack: true, BlackDiscs: 18, WhiteDiscs: 18},
		{AIsBlack: false, BlackDiscs: 15, WhiteDiscs: 21},
	}
	s := Summarize(results)
	is.Equal(s.WinsA, 2)
	is.Equal(s.WinsB, 1)
	is.Equal(s.Draws, 1)
	is.Equal(s.MeanMargin, 2.0)
	is.True(math.Abs(s.StdevMargin-math.Sqrt(40.0/3)) < 1e-9)
	is.Equal(s.ScoreRate, 0.625)
	is.True(s.HalfWidth > 0)

	out := s.String()
	is.True(strings.Contains(out, "A wins: 2  B wins: 1  Draws: 1"))
	is.True(strings.Contains(out, "Margin histogram"))
}

func TestSummarizeNoSpread(t *testing.T) {
	is := is.New(t)
	s := Summarize([]GameResult{{AIsBlack: true, BlackDiscs: 10, WhiteDiscs: 6}})
	is.Equal(s.WinsA, 1)
	is.Equal(s.MeanMargin, 4.0)
	is.Equal(s.StdevMargin, 0.0)
	is.True(!strings.Contains(s.String(), "histogram"))

	empty := Summarize(nil)
	is.Equal(empty.Games, 0)
	is.Equal(empty.String(), "Games: 0\nA wins: 0  B wins: 0  Draws: 0\n")
}
