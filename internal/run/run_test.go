package run

import (
	"context"
	"strings"
	"testing"
)

func TestLocalCapturesStdout(t *testing.T) {
	var echo strings.Builder
	l := NewLocal(&echo)

	res, err := l.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "echo hello"}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if !strings.Contains(echo.String(), "echo hello") {
		t.Errorf("echo transcript missing the command: %q", echo.String())
	}
	if !strings.Contains(echo.String(), "hello") {
		t.Errorf("echo transcript missing the output: %q", echo.String())
	}
}

func TestLocalReportsExitCode(t *testing.T) {
	var echo strings.Builder
	l := NewLocal(&echo)

	res, err := l.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "exit 3"}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestLocalQuietSummarizesOutput(t *testing.T) {
	var echo strings.Builder
	l := NewLocal(&echo)

	_, err := l.Run(context.Background(), Cmd{
		Name:  "sh",
		Args:  []string{"-c", "echo one; echo two"},
		Quiet: true,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.Contains(echo.String(), "[2 lines]") {
		t.Errorf("quiet transcript = %q, want a line count", echo.String())
	}
	if strings.Contains(echo.String(), "one") {
		t.Errorf("quiet transcript leaked output: %q", echo.String())
	}
}

func TestLocalMissingBinary(t *testing.T) {
	var echo strings.Builder
	l := NewLocal(&echo)

	_, err := l.Run(context.Background(), Cmd{Name: "definitely-not-a-real-binary-1234"})
	if err == nil {
		t.Fatal("Run() succeeded for a missing binary")
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", "''"},
		{"two words", "'two words'"},
		{"%{release}", "'%{release}'"},
		{"it's", `'it'"'"'s'`},
	}
	for _, tt := range tests {
		if got := ShellQuote(tt.in); got != tt.want {
			t.Errorf("ShellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLines(t *testing.T) {
	got := Lines("  a \n\nb\n \n")
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("Lines() = %v, want [a b]", got)
	}
}

func TestScriptRecordsAndStubs(t *testing.T) {
	s := &Script{Stubs: map[string]Response{
		"git status": {Stdout: "clean\n", ExitCode: 0},
	}}

	res, err := s.Run(context.Background(), Cmd{Name: "git", Args: []string{"status"}})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Stdout != "clean\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if len(s.Calls) != 1 || CommandLine(s.Calls[0]) != "git status" {
		t.Errorf("Calls = %v", s.CommandLines())
	}

	if _, err := s.Run(context.Background(), Cmd{Name: "git", Args: []string{"push"}}); err == nil {
		t.Error("Run() accepted a command with no stub and no handler")
	}
}
