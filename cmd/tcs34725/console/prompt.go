package console

import (
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

// YesOrNo asks a confirmation question; answering with an empty line picks
// yes.
func YesOrNo(question string) (string, error) {
	return Prompt(question, Yes, No)
}

// Prompt reads a single line from the terminal. When constraints are given
// the first one is the default (rendered uppercase in the hint) and any input
// that matches none of them falls back to it.
func Prompt(question string, constraints ...string) (string, error) {
	if len(constraints) == 0 {
		rl, err := readline.New(question + " ")
		if err != nil {
			return "", err
		}
		defer func() { _ = rl.Close() }()
		return rl.Readline()
	}
	hint := make([]string, len(constraints))
	copy(hint, constraints)
	hint[0] = strings.ToUpper(hint[0])
	rl, err := readline.New(question + " (" + strings.Join(hint, "/") + ") ")
	if err != nil {
		return "", err
	}
	defer func() { _ = rl.Close() }()
	answer, err := rl.Readline()
	if err != nil {
		return "", err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, c := range constraints {
		if answer == c {
			return c, nil
		}
	}
	return constraints[0], nil
}
