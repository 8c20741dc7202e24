package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"best": {
		Options: []string{"-depth", "-play", "-trace"},
	},
	"rank": {
		Options: []string{"-depth"},
	},
	"load": {
		Options: []string{"-file"},
	},
	"autoplay": {
		Options: []string{
			"-games", "-size", "-depth-a", "-depth-b", "-openings",
			"-parallel", "-seed", "-file",
		},
	},
	"set": {
		Args: optionKeys,
	},
	"setconfig": {
		Args: []string{
			"board-size", "search-depth", "agent-workers", "ttable-enabled",
			"ttable-clusters", "ttable-memory-fraction", "ttable-shared",
			"iterative-deepening", "evaluator", "log-level",
		},
	},
	"help": {
		Args: []string{"best", "rank", "autoplay", "set", "setconfig", "script", "load"},
	},
	"new": {
		Args: []string{"4", "6", "8", "10"},
	},
}

var commandNames = []string{
	"new", "load", "export", "show", "moves", "play", "pass", "undo", "best",
	"rank", "autoplay", "set", "setconfig", "script", "help", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quotes and the like
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			// an option wants a value
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "play":
				completions = boolValues
			default:
				return nil, 0
			}
		} else if cmdName == "set" && len(fields) >= 2 && (len(fields) > 2 || endsWithSpace) {
			switch fields[1] {
			case "deepening", "ttable":
				completions = boolValues
			case "evaluator":
				completions = []string{"disc", "positional"}
			}
		} else if cmdName == "play" && c.sc.board != nil {
			for _, m := range c.sc.board.LegalMoves() {
				completions = append(completions, m.String())
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
