package automatic

// Running and summarising whole matches.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/JosephPrichard/othello-bot-sub001/stats"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("othelloGamesPlayed")
	IsPlaying = expvar.NewInt("othelloIsPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// PlayMatch plays every game in r's options and returns the results in game
// order. On error the games finished so far are still returned.
func (r *GameRunner) PlayMatch(ctx context.Context) ([]GameResult, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	openings := r.Openings()
	log.Debug().Int("games", r.opts.Games).
		Int("parallel", r.opts.Parallel).
		Int("depth-a", r.opts.DepthA).
		Int("depth-b", r.opts.DepthB).
		Msg("starting-match")

	results := make([]GameResult, r.opts.Games)
	done := make([]bool, r.opts.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallel)
	for i := 0; i < r.opts.Games; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			res, err := r.PlayGame(gctx, i, openings[i/2])
			if err != nil {
				return err
			}
			results[i] = res
			done[i] = true
			GamesPlayed.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	finished := make([]GameResult, 0, len(results))
	for i, res := range results {
		if done[i] {
			finished = append(finished, res)
		}
	}
	return finished, err
}

// Summary aggregates a match from A's point of view.
type Summary struct {
	Games       int
	WinsA       int
	WinsB       int
	Draws       int
	MeanMargin  float64
	StdevMargin float64

	// ScoreRate counts a draw as half a win; HalfWidth is its 95%
	// confidence half-width.
	ScoreRate float64
	HalfWidth float64
	margins   []float64
}

// Summarize tallies a set of finished games.
func Summarize(results []GameResult) Summary {
	s := Summary{Games: len(results)}
	if len(results) == 0 {
		return s
	}
	s.WinsA = lo.CountBy(results, func(g GameResult) bool { return g.Margin() > 0 })
	s.WinsB = lo.CountBy(results, func(g GameResult) bool { return g.Margin() < 0 })
	s.Draws = s.Games - s.WinsA - s.WinsB
	s.margins = lo.Map(results, func(g GameResult, _ int) float64 { return float64(g.Margin()) })
	if len(s.margins) > 1 {
		s.MeanMargin, s.StdevMargin = stat.MeanStdDev(s.margins, nil)
	} else {
		s.MeanMargin = s.margins[0]
	}
	s.ScoreRate, s.HalfWidth = stats.WinRateInterval(s.WinsA, s.Draws, s.Games, 95)
	return s
}

func (s Summary) String() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "Games: %d\n", s.Games)
	fmt.Fprintf(&ss, "A wins: %d  B wins: %d  Draws: %d\n", s.WinsA, s.WinsB, s.Draws)
	if s.Games == 0 {
		return ss.String()
	}
	fmt.Fprintf(&ss, "A score rate: %.2f%% ± %.2f%% (95%% CI)\n", s.ScoreRate*100, s.HalfWidth*100)
	fmt.Fprintf(&ss, "Disc margin for A: %.2f (stdev %.2f)\n", s.MeanMargin, s.StdevMargin)
	// a histogram needs some spread to bucket.
	if lo.Min(s.margins) < lo.Max(s.margins) {
		ss.WriteString("Margin histogram:\n")
		h := histogram.Hist(10, s.margins)
		if err := histogram.Fprint(&ss, h, histogram.Linear(40)); err != nil {
			log.Err(err).Msg("printing-histogram")
		}
	}
	return ss.String()
}
