package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regexrunner/pkg/adapters/memory"
	"github.com/aretw0/regexrunner/pkg/domain"
	"github.com/aretw0/regexrunner/pkg/ports"
)

func endsInOne() domain.Challenge {
	return domain.Challenge{
		ID:    "ends_in_1",
		Level: 2,
		Name:  "Ends in 1",
		DFA: domain.Automaton{
			States:      []string{"a", "b"},
			Alphabet:    []string{"0", "1"},
			Transitions: map[string]map[string]string{"a": {"0": "a", "1": "b"}, "b": {"0": "a", "1": "b"}},
			StartState:  "a",
			FinalStates: []string{"b"},
		},
	}
}

func TestMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewLoader(endsInOne(), domain.EvenOnes())
	require.NoError(t, err)

	ports.RunChallengeLoaderContract(t, loader, []domain.Challenge{domain.EvenOnes(), endsInOne()})
}

func TestMemoryLoader_Default(t *testing.T) {
	loader := memory.NewDefaultLoader()
	c, err := loader.GetChallenge(domain.DefaultChallengeID)
	require.NoError(t, err)
	assert.Equal(t, "Even Ones", c.Name)
}

func TestMemoryLoader_Rejects(t *testing.T) {
	_, err := memory.NewLoader(domain.Challenge{})
	assert.ErrorContains(t, err, "missing ID")

	_, err = memory.NewLoader(domain.EvenOnes(), domain.EvenOnes())
	assert.ErrorContains(t, err, "duplicate challenge ID")
}
