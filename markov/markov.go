package markov

import (
	"errors"
	"fmt"
	"strings"
)

// tokens within a state key are joined with a single space; normalized
// training text never contains internal whitespace runs, so this is unambiguous
const stateSeparator = " "

var (
	// ErrEmptyCorpus indicates that no training item survived filtering: an
	// item only qualifies if it has at least stateSize+1 tokens.
	ErrEmptyCorpus = errors.New("no qualifying training items in corpus")

	// ErrNoStartStates indicates a model with nothing to seed a walk from.
	// Build never returns such a model; this guards hand-constructed ones.
	ErrNoStartStates = errors.New("model has no start states")
)

// Model is a word-transition model: a mapping from a fixed-width window of
// consecutive words (a "state") to the list of words observed to follow that
// window anywhere in the training corpus. The list preserves duplicates, which
// encode relative frequency for weighted sampling during generation.
//
// A Model is immutable once built and safe for concurrent use by any number
// of Generate calls.
type Model struct {
	stateSize   int
	transitions map[string][]string

	// one entry per qualifying training item, duplicates preserved: items
	// that start the same way bias seeding toward that phrasing
	starts [][]string
}

// Build constructs a Model from a corpus of normalized strings. Items are
// tokenized on whitespace; an item qualifies only if it has at least
// stateSize+1 tokens, so that it contributes at least one transition. Items
// that are empty, whitespace-only, or too short are silently skipped.
func Build(corpus []string, stateSize int) (*Model, error) {
	if stateSize < 1 {
		return nil, fmt.Errorf("state size must be at least 1, got %d", stateSize)
	}

	m := &Model{
		stateSize:   stateSize,
		transitions: make(map[string][]string),
	}
	for _, item := range corpus {
		tokens := strings.Fields(item)
		if len(tokens) < stateSize+1 {
			continue
		}
		m.starts = append(m.starts, tokens[:stateSize:stateSize])
		for i := 0; i+stateSize < len(tokens); i++ {
			key := strings.Join(tokens[i:i+stateSize], stateSeparator)
			m.transitions[key] = append(m.transitions[key], tokens[i+stateSize])
		}
	}
	if len(m.starts) == 0 {
		return nil, ErrEmptyCorpus
	}
	return m, nil
}

// StateSize returns the word-window width this model was built with.
func (m *Model) StateSize() int {
	return m.stateSize
}

// States returns the number of distinct states with at least one outgoing
// transition.
func (m *Model) States() int {
	return len(m.transitions)
}

// StartStates returns the number of registered start states, counting
// duplicates.
func (m *Model) StartStates() int {
	return len(m.starts)
}
