package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/JosephPrichard/othello-bot-sub001/agent"
	"github.com/JosephPrichard/othello-bot-sub001/board"
	"github.com/JosephPrichard/othello-bot-sub001/config"
	"github.com/JosephPrichard/othello-bot-sub001/move"
	"github.com/JosephPrichard/othello-bot-sub001/negamax"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("no board loaded; use `new` or `load` first")
	errQuit              = errors.New("quit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options. Every option needs a value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if isOption(f) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// isOption reports whether f looks like -name. Negative numbers are not
// options.
func isOption(f string) bool {
	if len(f) < 2 || f[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(f, 64)
	return err != nil
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	options *ShellOptions
	service *agent.Service

	board   *board.Board
	history []*board.Board
	// lastRanked is the most recent `rank` output, for `play #n`.
	lastRanked []move.Move

	engine *negamax.Engine
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController builds an interactive shell on top of a fresh agent
// service.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc, err := newController(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mothello>\033[0m ",
		HistoryFile:     "/tmp/othello-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		sc.Cleanup()
		return nil, err
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc, nil
}

func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	service, err := agent.NewService(cfg)
	if err != nil {
		return nil, err
	}
	return &ShellController{
		out:     out,
		config:  cfg,
		options: NewShellOptions(cfg),
		service: service,
	}, nil
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "export":
		return sc.export(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves", "m":
		return sc.moves(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "pass":
		return sc.pass(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "best", "b":
		return sc.best(cmd)
	case "rank", "r":
		return sc.rank(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "script":
		return sc.script(cmd)
	case "help", "h":
		return sc.help(cmd)
	case "exit", "bye", "quit":
		return nil, errQuit
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, for non-interactive use.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.executeLine(line); errors.Is(err, errQuit) {
		sig <- syscall.SIGINT
	}
}

func (sc *ShellController) executeLine(line string) error {
	cmd, err := extractFields(line)
	if err == errNoData {
		return nil
	} else if err != nil {
		sc.showError(err)
		return nil
	}
	resp, err := sc.handle(cmd)
	if errors.Is(err, errQuit) {
		return err
	} else if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if err := sc.executeLine(line); errors.Is(err, errQuit) {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops the agent service, finishing any queued searches.
func (sc *ShellController) Cleanup() {
	if err := sc.service.Close(); err != nil {
		log.Err(err).Msg("closing-agent-service")
	}
}
