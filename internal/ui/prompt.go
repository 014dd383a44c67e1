package ui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a confirmation is required but
// stdin is not a terminal.
var ErrNotInteractive = errors.New("interactive confirmation required but stdin is not a terminal")

// Prompter asks the operator yes/no questions and for short free-form
// answers. The engines take a Prompter instead of reading the terminal
// directly so batch runs and tests can supply deterministic answers.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)

	// Input asks for a single line of text.
	Input(question string) (string, error)
}

// NewPrompter returns an interactive Prompter when stdin is a terminal,
// and a refusing one otherwise.
func NewPrompter() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return &Interactive{}
	}
	return &NonInteractive{}
}

// Interactive prompts on the terminal using huh forms.
type Interactive struct{}

func (p *Interactive) Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (p *Interactive) Input(question string) (string, error) {
	var answer string
	err := huh.NewInput().
		Title(question).
		Value(&answer).
		Run()
	if err != nil {
		return "", err
	}
	return answer, nil
}

// NonInteractive refuses every prompt. Used when stdin is not a terminal,
// where silently assuming an answer could tag or push the wrong thing.
type NonInteractive struct{}

func (p *NonInteractive) Confirm(question string) (bool, error) {
	return false, ErrNotInteractive
}

func (p *NonInteractive) Input(question string) (string, error) {
	return "", ErrNotInteractive
}

// Scripted replays canned answers in order. Intended for tests.
type Scripted struct {
	Confirms []bool
	Inputs   []string

	// Questions records every question asked, in order.
	Questions []string

	confirmIdx int
	inputIdx   int
}

func (p *Scripted) Confirm(question string) (bool, error) {
	p.Questions = append(p.Questions, question)
	if p.confirmIdx >= len(p.Confirms) {
		return false, errors.New("scripted prompter: no confirm answer left")
	}
	answer := p.Confirms[p.confirmIdx]
	p.confirmIdx++
	return answer, nil
}

func (p *Scripted) Input(question string) (string, error) {
	p.Questions = append(p.Questions, question)
	if p.inputIdx >= len(p.Inputs) {
		return "", errors.New("scripted prompter: no input answer left")
	}
	answer := p.Inputs[p.inputIdx]
	p.inputIdx++
	return answer, nil
}
