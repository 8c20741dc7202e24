package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JosephPrichard/othello-bot-sub001/automatic"
	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/config"
	"github.com/JosephPrichard/othello-bot-sub001/heuristic"
	"github.com/JosephPrichard/othello-bot-sub001/move"
	"github.com/JosephPrichard/othello-bot-sub001/negamax"
)

const defaultConfigFile = "othello.yaml"

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

// ShellOptions are the search settings `best` and `rank` use unless a
// command overrides them.
type ShellOptions struct {
	depth     int
	evaluator heuristic.Evaluator
	deepening bool
	ttable    bool
}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	ev, err := heuristic.ByName(cfg.GetString(config.ConfigEvaluator))
	if err != nil {
		ev = heuristic.NewPositional()
	}
	return &ShellOptions{
		depth:     cfg.GetInt(config.ConfigSearchDepth),
		evaluator: ev,
		deepening: cfg.GetBool(config.ConfigIterativeDeepening),
		ttable:    cfg.GetBool(config.ConfigTTableEnabled),
	}
}

var optionKeys = []string{"depth", "evaluator", "deepening", "ttable"}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "depth":
		return true, strconv.Itoa(opts.depth)
	case "evaluator":
		return true, opts.evaluator.Name()
	case "deepening":
		return true, strconv.FormatBool(opts.deepening)
	case "ttable":
		return true, strconv.FormatBool(opts.ttable)
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) Set(key string, values []string) (string, error) {
	if len(values) != 1 {
		return "", errors.New("set takes a single value")
	}
	v := values[0]
	switch key {
	case "depth":
		d, err := strconv.Atoi(v)
		if err != nil {
			return "", err
		}
		if d < 1 {
			return "", fmt.Errorf("%w: got %d", negamax.ErrInvalidDepth, d)
		}
		opts.depth = d
	case "evaluator":
		ev, err := heuristic.ByName(v)
		if err != nil {
			return "", err
		}
		opts.evaluator = ev
	case "deepening", "ttable":
		b, err := strconv.ParseBool(v)
		if err != nil {
			return "", err
		}
		if key == "deepening" {
			opts.deepening = b
		} else {
			opts.ttable = b
		}
	default:
		return "", errors.New("option " + key + " not recognized")
	}
	_, val := opts.Show(key)
	return val, nil
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	ret, err := sc.options.Set(opt, cmd.args[1:])
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	old := sc.config.Get(key)
	sc.config.Set(key, value)
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	path := sc.config.GetString(config.ConfigConfigFile)
	if path == "" {
		path = defaultConfigFile
	}
	if err := sc.config.Write(path); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return msg(fmt.Sprintf("set config %s to %s and saved to %s", key, value, path)), nil
}

func (sc *ShellController) setBoard(b *board.Board) {
	sc.board = b
	sc.history = sc.history[:0]
	sc.lastRanked = nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	dim := sc.config.GetInt(config.ConfigBoardSize)
	if len(cmd.args) > 0 {
		var err error
		if dim, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	b, err := board.NewBoard(dim)
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return sc.show(nil)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	var enc string
	if path := cmd.options.String("file"); path != "" {
		dat, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		enc = string(dat)
	} else if cmd.args != nil {
		enc = strings.Join(cmd.args, "")
	} else {
		return nil, errors.New("need a board encoding or -file for load")
	}
	b, err := board.Decode(enc)
	if err != nil {
		return nil, err
	}
	sc.setBoard(b)
	return sc.show(nil)
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	enc := sc.board.Encode()
	if cmd.args == nil {
		return msg(enc), nil
	}
	filename := cmd.args[0]
	if err := os.WriteFile(filename, []byte(enc+"\n"), 0o644); err != nil {
		return nil, err
	}
	log.Debug().Str("board", enc).Str("file", filename).Msg("exported-board")
	return msg("board written to " + filename), nil
}

func (sc *ShellController) status() string {
	b := sc.board
	if b.IsGameOver() {
		switch b.Winner() {
		case board.Empty:
			return "Game over: draw."
		default:
			return fmt.Sprintf("Game over: %v wins %d-%d.", b.Winner(),
				max(b.CountDiscs(board.Black), b.CountDiscs(board.White)),
				min(b.CountDiscs(board.Black), b.CountDiscs(board.White)))
		}
	}
	if !b.HasLegalMove(b.ToMove()) {
		return fmt.Sprintf("%v has no legal move and must pass.", b.ToMove())
	}
	return ""
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	out := sc.board.ToDisplayText()
	if st := sc.status(); st != "" {
		out += st + "\n"
	}
	return msg(out), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	moves := sc.board.LegalMoves()
	if len(moves) == 0 {
		return msg(fmt.Sprintf("No legal moves for %v.", sc.board.ToMove())), nil
	}
	descs := make([]string, len(moves))
	for i, m := range moves {
		descs[i] = m.String()
	}
	return msg(fmt.Sprintf("Legal moves for %v: %s", sc.board.ToMove(), strings.Join(descs, " "))), nil
}

func (sc *ShellController) pushHistory() {
	sc.history = append(sc.history, sc.board.Copy())
	sc.lastRanked = nil
}

func (sc *ShellController) commit(p board.Position) (*Response, error) {
	if !sc.board.IsLegal(p) {
		return nil, fmt.Errorf("%w: %v", board.ErrIllegalMove, p)
	}
	sc.pushHistory()
	if err := sc.board.Play(p); err != nil {
		return nil, err
	}
	return sc.show(nil)
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <coord> or play #<rank>")
	}
	arg := cmd.args[0]
	if strings.HasPrefix(arg, "#") {
		idx, err := strconv.Atoi(arg[1:])
		if err != nil {
			return nil, err
		}
		if idx < 1 || idx > len(sc.lastRanked) {
			return nil, errors.New("play outside range; run `rank` first")
		}
		return sc.commit(sc.lastRanked[idx-1].Position())
	}
	p, err := board.ParsePosition(arg, sc.board.Dim())
	if err != nil {
		return nil, err
	}
	return sc.commit(p)
}

func (sc *ShellController) pass(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if sc.board.IsGameOver() {
		return nil, errors.New("the game is over")
	}
	if sc.board.HasLegalMove(sc.board.ToMove()) {
		return nil, fmt.Errorf("%v has a legal move and cannot pass", sc.board.ToMove())
	}
	sc.pushHistory()
	sc.board.Pass()
	return sc.show(nil)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	sc.board = sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.lastRanked = nil
	return sc.show(nil)
}

// engineFor prepares the shell's own engine for the current board.
func (sc *ShellController) engineFor(depth int) (*negamax.Engine, error) {
	if sc.engine == nil {
		e, err := negamax.NewEngineFromBoard(sc.board, depth)
		if err != nil {
			return nil, err
		}
		sc.engine = e
	} else {
		if err := sc.engine.SetBoard(sc.board); err != nil {
			return nil, err
		}
		if err := sc.engine.SetMaxDepth(depth); err != nil {
			return nil, err
		}
	}
	sc.engine.SetEvaluator(sc.options.evaluator)
	sc.engine.SetIterativeDeepening(sc.options.deepening)
	sc.engine.SetTranspositionTableOptim(sc.options.ttable)
	return sc.engine, nil
}

func formatLine(pv []board.Position) string {
	descs := make([]string, len(pv))
	for i, p := range pv {
		if p == board.NoPosition {
			descs[i] = "pass"
		} else {
			descs[i] = p.String()
		}
	}
	return strings.Join(descs, " ")
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	depth, err := cmd.options.IntDefault("depth", sc.options.depth)
	if err != nil {
		return nil, err
	}
	e, err := sc.engineFor(depth)
	if err != nil {
		return nil, err
	}
	e.SetLogStream(nil)
	if path := cmd.options.String("trace"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		e.SetLogStream(f)
	}

	ts := time.Now()
	m, err := e.FindBestMove(context.Background())
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(ts)
	if m.IsNoMove() {
		return msg(fmt.Sprintf("No move: %v cannot play.", sc.board.ToMove())), nil
	}

	p := message.NewPrinter(language.English)
	var out strings.Builder
	p.Fprintf(&out, "Best move: %s (score %.2f, depth %d)\n", m.ShortDescription(), m.Heuristic(), depth)
	p.Fprintf(&out, "Nodes: %d in %.3fs\n", e.Nodes(), elapsed.Seconds())
	if pv := e.PrincipalVariation(depth); len(pv) > 0 {
		p.Fprintf(&out, "Line: %s\n", formatLine(pv))
	}
	if cmd.options.Bool("play") {
		resp, err := sc.commit(m.Position())
		if err != nil {
			return nil, err
		}
		out.WriteString(resp.message)
	}
	return msg(out.String()), nil
}

type rankedResult struct {
	moves []move.Move
	err   error
}

func (sc *ShellController) rank(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	depth, err := cmd.options.IntDefault("depth", sc.options.depth)
	if err != nil {
		return nil, err
	}
	ch := make(chan rankedResult, 1)
	ts := time.Now()
	id, err := sc.service.FindRankedMoves(sc.board, depth, func(ms []move.Move, err error) {
		ch <- rankedResult{ms, err}
	})
	if err != nil {
		return nil, err
	}
	res := <-ch
	if res.err != nil {
		return nil, res.err
	}
	log.Debug().Str("job-id", id).Dur("elapsed", time.Since(ts)).Msg("ranked-moves")
	if len(res.moves) == 0 {
		return msg(fmt.Sprintf("No moves: %v cannot play.", sc.board.ToMove())), nil
	}
	sc.lastRanked = res.moves

	var out strings.Builder
	out.WriteString("     Move   Score\n")
	for i, m := range res.moves {
		fmt.Fprintf(&out, "%3d: %-6s%8.2f\n", i+1, m.ShortDescription(), m.Heuristic())
	}
	return msg(out.String()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	opts := automatic.Options{BoardSize: sc.config.GetInt(config.ConfigBoardSize)}
	var err error
	ints := []struct {
		key  string
		dflt int
		dst  *int
	}{
		{"games", 10, &opts.Games},
		{"size", opts.BoardSize, &opts.BoardSize},
		{"depth-a", sc.options.depth, &opts.DepthA},
		{"depth-b", max(1, sc.options.depth-1), &opts.DepthB},
		{"openings", 4, &opts.OpeningPlies},
		{"parallel", sc.config.GetInt(config.ConfigAgentWorkers), &opts.Parallel},
	}
	for _, o := range ints {
		if *o.dst, err = cmd.options.IntDefault(o.key, o.dflt); err != nil {
			return nil, fmt.Errorf("-%s: %w", o.key, err)
		}
	}
	if s := cmd.options.String("seed"); s != "" {
		if opts.Seed, err = strconv.ParseUint(s, 10, 64); err != nil {
			return nil, fmt.Errorf("-seed: %w", err)
		}
	}
	r, err := automatic.NewGameRunner(sc.service, opts)
	if err != nil {
		return nil, err
	}
	if path := cmd.options.String("file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r.SetLogStream(f)
	}
	sc.showMessage(fmt.Sprintf("Playing %d games: depth %d (A) vs depth %d (B)...",
		opts.Games, opts.DepthA, opts.DepthB))
	results, err := r.PlayMatch(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(automatic.Summarize(results).String()), nil
}
