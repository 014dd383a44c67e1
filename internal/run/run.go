// Package run executes external commands behind a narrow interface.
//
// Everything the synchronization engines do to a repository goes through
// a single Runner, so the engines can be tested against a scripted fake
// (see Script) instead of a live git installation.
//
// The local runner echoes every command to the echo writer before running
// it, the way an operator would see it in a shell transcript. There is no
// timeout: this is an interactively supervised tool and a hang in git is
// the operator's signal to intervene.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"patchsync/internal/ui"
)

// Cmd describes one external command invocation.
type Cmd struct {
	// Name is the program to run (e.g. "git", "rpm").
	Name string

	// Args are the program arguments.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdin, when non-nil, is connected to the command's standard input.
	Stdin io.Reader

	// Quiet replaces the stdout echo with a "[N lines]" summary.
	// The output is still captured and returned.
	Quiet bool
}

// Result holds what the engines need from a finished command: the captured
// standard output and the exit status. A non-zero exit is not an error at
// this layer; callers decide what each status means.
type Result struct {
	Stdout   string
	ExitCode int
}

// Runner runs external commands. The only error returned is a failure to
// run the command at all (binary missing, I/O error); command failure is
// reported through Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, c Cmd) (Result, error)
}

// Local runs commands on the local system via os/exec.
type Local struct {
	// Echo receives the command transcript (the command line, its stdout,
	// and stderr). Typically os.Stderr, optionally teed into a log file.
	Echo io.Writer
}

// NewLocal returns a Local runner writing its transcript to echo.
func NewLocal(echo io.Writer) *Local {
	return &Local{Echo: echo}
}

// Run executes the command, echoing the invocation and its output.
func (l *Local) Run(ctx context.Context, c Cmd) (Result, error) {
	fmt.Fprintln(l.Echo, EchoLine(c))

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin

	var stdout strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = l.Echo

	err := cmd.Run()
	res := Result{Stdout: stdout.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("running %s: %w", c.Name, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	if strings.TrimSpace(res.Stdout) != "" {
		if c.Quiet {
			fmt.Fprintf(l.Echo, "[%d lines]\n", strings.Count(res.Stdout, "\n"))
		} else {
			fmt.Fprintln(l.Echo, strings.TrimRight(res.Stdout, "\n"))
		}
	}

	return res, nil
}

// EchoLine renders the shell-transcript line for a command.
func EchoLine(c Cmd) string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, ShellQuote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, ShellQuote(a))
	}
	line := ui.RenderAccent(c.Dir+"$ ") + strings.Join(parts, " ")
	if named, ok := c.Stdin.(interface{ Name() string }); ok && named != nil {
		line += ui.RenderAccent(" < " + ShellQuote(named.Name()))
	}
	return line
}

// ShellQuote quotes a string for display in a shell transcript.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$&|;<>()*?[]#~%{}\\!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// Lines splits captured stdout into trimmed, non-empty lines.
func Lines(stdout string) []string {
	raw := strings.Split(stdout, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
