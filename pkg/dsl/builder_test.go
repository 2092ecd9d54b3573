package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/domain"
)

func TestBuilder_EvenOnes(t *testing.T) {
	b := New("q0")

	b.Add("q0").
		Label("Even 1s").
		On("0", "q0").
		On("1", "q1").
		Accept().
		Add("q1").
		Label("Odd 1s").
		On("0", "q1").
		On("1", "q0")

	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := domain.EvenOnes().DFA
	if got, exp := def.States, want.States; len(got) != len(exp) || got[0] != exp[0] || got[1] != exp[1] {
		t.Errorf("States = %v, want %v", got, exp)
	}
	if def.Alphabet[0] != "0" || def.Alphabet[1] != "1" {
		t.Errorf("Alphabet = %v, want [0 1] in first-use order", def.Alphabet)
	}
	if def.Label("q1") != "Odd 1s" {
		t.Errorf("Label(q1) = %q", def.Label("q1"))
	}

	if err := runtime.Validate(&def); err != nil {
		t.Errorf("expected complete DFA, got %v", err)
	}

	for _, input := range []string{"", "00", "11", "0110"} {
		if res := runtime.Run(&def, input); !res.Accepted {
			t.Errorf("Run(%q) rejected: %s", input, res.Summary())
		}
	}
	if res := runtime.Run(&def, "1"); res.Accepted {
		t.Errorf("Run(%q) accepted", "1")
	}
}

func TestBuilder_ExplicitAlphabetAndLoop(t *testing.T) {
	b := New("s").Alphabet("a", "b", "c")
	b.Add("s").Loop("a", "b", "c").Accept()

	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(def.Alphabet) != 3 || def.Alphabet[2] != "c" {
		t.Errorf("Alphabet = %v", def.Alphabet)
	}
	if target, _ := def.Target("s", "b"); target != "s" {
		t.Errorf("Target(s, b) = %q, want s", target)
	}
	if def.Labels != nil {
		t.Errorf("expected nil labels, got %v", def.Labels)
	}
}

func TestBuilder_PartialIsAllowed(t *testing.T) {
	b := New("q0")
	b.Add("q0").On("1", "q1")
	b.Add("q1").Accept()

	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	res := runtime.Run(&def, "11")
	if res.Outcome != domain.OutcomeUndefinedTransition {
		t.Errorf("Outcome = %s, want undefined_transition", res.Outcome)
	}
}

func TestBuilder_UndeclaredTarget(t *testing.T) {
	b := New("q0")
	b.Add("q0").On("1", "ghost")

	_, err := b.Build()
	if !errors.Is(err, domain.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestBuilder_BuildChallenge(t *testing.T) {
	b := New("q0")
	b.Add("q0").Loop("0", "1").Accept()

	loader, err := b.BuildChallenge(domain.Challenge{ID: "anything", Level: 1, Name: "Anything"})
	if err != nil {
		t.Fatalf("BuildChallenge() failed: %v", err)
	}
	c, err := loader.GetChallenge("anything")
	if err != nil {
		t.Fatalf("GetChallenge() failed: %v", err)
	}
	if !c.DFA.IsFinal("q0") {
		t.Errorf("expected q0 to be final")
	}
}
