package markov

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// Constraints bound what a Generate call will accept and how hard it will try.
type Constraints struct {
	// MinChars and MaxChars are inclusive bounds on the character count of
	// the space-joined result. MinChars may be zero.
	MinChars int
	MaxChars int

	// MaxTries is the walk budget before giving up. Must be at least 1.
	MaxTries int
}

func (c Constraints) validate() error {
	if c.MinChars < 0 {
		return fmt.Errorf("min chars must not be negative, got %d", c.MinChars)
	}
	if c.MaxChars < c.MinChars {
		return fmt.Errorf("max chars (%d) must not be less than min chars (%d)", c.MaxChars, c.MinChars)
	}
	if c.MaxTries < 1 {
		return fmt.Errorf("max tries must be at least 1, got %d", c.MaxTries)
	}
	return nil
}

// Result is an accepted generation: the text and its character count.
type Result struct {
	Text   string
	Length int
}

// BoundsError reports that no walk produced text within the configured
// length bounds before the attempt budget ran out. The caller can recover by
// relaxing bounds, skipping this cycle, or training on more data.
type BoundsError struct {
	MinChars int
	MaxChars int
	Attempts int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("no generated text between %d and %d characters after %d attempts", e.MinChars, e.MaxChars, e.Attempts)
}

// Generate performs randomized walks over the model until one produces text
// whose character count falls within the configured bounds, or the attempt
// budget is exhausted (returning a *BoundsError).
//
// rng is the only source of non-determinism; pass a seeded source for
// reproducible output. A nil rng gets a time-seeded one. Generate never
// mutates the model, so concurrent calls against one model are safe as long
// as they do not share an rng.
func (m *Model) Generate(rng *rand.Rand, c Constraints) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if len(m.starts) == 0 {
		return nil, ErrNoStartStates
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for attempt := 0; attempt < c.MaxTries; attempt++ {
		text := m.walk(rng)
		if n := utf8.RuneCountInString(text); n >= c.MinChars && n <= c.MaxChars {
			return &Result{Text: text, Length: n}, nil
		}
	}
	return nil, &BoundsError{
		MinChars: c.MinChars,
		MaxChars: c.MaxChars,
		Attempts: c.MaxTries,
	}
}

// walk runs a single attempt: seed from a random start state, then repeatedly
// extend with a shuffled candidate that leads to an unvisited state, until a
// dead end. The visited set is local to this walk, so cycle avoidance never
// leaks between attempts.
func (m *Model) walk(rng *rand.Rand) string {
	start := m.starts[rng.Intn(len(m.starts))]
	result := append([]string(nil), start...)
	state := strings.Join(start, stateSeparator)
	visited := map[string]struct{}{state: {}}

	for {
		candidates := m.transitions[state]
		if len(candidates) == 0 {
			break
		}

		// full shuffle of a copy, not resampling: duplicate entries keep
		// proportionally higher odds of being tried early, which is how
		// observation frequency weights the walk
		order := append([]string(nil), candidates...)
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		advanced := false
		for _, word := range order {
			nextTokens := make([]string, 0, m.stateSize)
			nextTokens = append(nextTokens, result[len(result)-m.stateSize+1:]...)
			nextTokens = append(nextTokens, word)
			next := strings.Join(nextTokens, stateSeparator)
			if _, seen := visited[next]; seen {
				continue
			}
			result = append(result, word)
			state = next
			visited[next] = struct{}{}
			advanced = true
			break
		}
		if !advanced {
			break
		}
	}
	return strings.Join(result, " ")
}
