package run

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Script is a Runner for tests. It records every invocation and answers
// from a table of canned responses, falling back to a handler function
// for calls whose output depends on state (e.g. a moving branch tip).
type Script struct {
	// Calls records every command in invocation order.
	Calls []Cmd

	// Stubs maps a command line (program and arguments joined with single
	// spaces) to its response.
	Stubs map[string]Response

	// Handler, when set, answers calls that have no stub.
	Handler func(c Cmd) (Result, error)
}

// Response is one canned answer.
type Response struct {
	Stdout   string
	ExitCode int
	Err      error
}

// Run looks up the command in Stubs, then Handler. Unexpected commands
// fail loudly so tests notice drift in the engines' command usage.
func (s *Script) Run(ctx context.Context, c Cmd) (Result, error) {
	// Drain stdin so file-backed readers behave like a real command.
	if c.Stdin != nil {
		_, _ = io.ReadAll(c.Stdin)
	}
	s.Calls = append(s.Calls, c)

	key := CommandLine(c)
	if resp, ok := s.Stubs[key]; ok {
		return Result{Stdout: resp.Stdout, ExitCode: resp.ExitCode}, resp.Err
	}
	if s.Handler != nil {
		return s.Handler(c)
	}
	return Result{}, fmt.Errorf("script runner: unexpected command %q", key)
}

// CommandLine joins a command's program and arguments for stub lookup.
func CommandLine(c Cmd) string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// CommandLines returns the recorded invocations as stub-style keys.
func (s *Script) CommandLines() []string {
	out := make([]string, len(s.Calls))
	for i, c := range s.Calls {
		out[i] = CommandLine(c)
	}
	return out
}
