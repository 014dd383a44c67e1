package ui

import (
	"errors"
	"testing"
)

func TestScriptedPrompterReplaysAnswers(t *testing.T) {
	p := &Scripted{
		Confirms: []bool{true, false},
		Inputs:   []string{"fedora-3.12.1-2"},
	}

	ok, err := p.Confirm("create branch?")
	if err != nil || !ok {
		t.Errorf("first Confirm() = %v, %v, want true, nil", ok, err)
	}
	ok, err = p.Confirm("push?")
	if err != nil || ok {
		t.Errorf("second Confirm() = %v, %v, want false, nil", ok, err)
	}
	if _, err := p.Confirm("one too many?"); err == nil {
		t.Error("Confirm() did not fail when answers ran out")
	}

	answer, err := p.Input("tag name?")
	if err != nil || answer != "fedora-3.12.1-2" {
		t.Errorf("Input() = %q, %v", answer, err)
	}

	want := []string{"create branch?", "push?", "one too many?", "tag name?"}
	if len(p.Questions) != len(want) {
		t.Fatalf("Questions = %v, want %v", p.Questions, want)
	}
	for i := range want {
		if p.Questions[i] != want[i] {
			t.Errorf("Questions[%d] = %q, want %q", i, p.Questions[i], want[i])
		}
	}
}

func TestNonInteractiveRefuses(t *testing.T) {
	p := &NonInteractive{}

	if _, err := p.Confirm("anything?"); !errors.Is(err, ErrNotInteractive) {
		t.Errorf("Confirm() error = %v, want ErrNotInteractive", err)
	}
	if _, err := p.Input("anything?"); !errors.Is(err, ErrNotInteractive) {
		t.Errorf("Input() error = %v, want ErrNotInteractive", err)
	}
}
