package bot

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/skywrite/mimic/cleantext"
	"github.com/skywrite/mimic/corpus"
	"github.com/skywrite/mimic/markov"
)

// how many accepted generations may be rejected as repeats before the cycle
// gives up
const dedupeBudget = 5

// ErrRepeatedOutput indicates that every accepted generation this cycle had
// already been posted before.
var ErrRepeatedOutput = errors.New("all generated candidates were already posted")

// TrainFromSources pulls new posts from every connected platform, normalizes
// them, and adds the survivors to the corpus. A platform fetch failure only
// skips that platform; storage failures abort the pass.
func (s *Server) TrainFromSources(ctx context.Context) (int, error) {
	total := 0
	for _, p := range s.platforms {
		cursor, err := s.store.LastSeen(ctx, p.Name())
		if err != nil {
			return total, fmt.Errorf("reading cursor for %s: %w", p.Name(), err)
		}
		raw, next, err := p.FetchSince(ctx, cursor)
		if err != nil {
			s.logger.Warn("fetching source posts failed", "platform", p.Name(), "err", err)
			continue
		}

		cleaned := make([]string, 0, len(raw))
		for _, item := range raw {
			if clean := s.cleaner.Normalize(item); clean != "" {
				cleaned = append(cleaned, clean)
			}
		}
		added, err := s.store.AddItems(ctx, p.Name(), cleaned)
		if err != nil {
			return total, fmt.Errorf("storing items from %s: %w", p.Name(), err)
		}
		if next != cursor {
			if err := s.store.SetLastSeen(ctx, p.Name(), next); err != nil {
				return total, fmt.Errorf("advancing cursor for %s: %w", p.Name(), err)
			}
		}
		itemsTrained.Add(float64(added))
		total += added
	}

	if n, err := s.store.Len(ctx); err == nil {
		corpusSize.Set(float64(n))
	}
	return total, nil
}

// buildModel loads the stored corpus and builds a fresh transition model.
func (s *Server) buildModel(ctx context.Context) (*markov.Model, error) {
	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	return markov.Build(items, s.cfg.StateSize)
}

func (s *Server) generate(model *markov.Model) (*markov.Result, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return model.Generate(s.rng, markov.Constraints{
		MinChars: s.cfg.MinChars,
		MaxChars: s.cfg.MaxChars,
		MaxTries: s.cfg.MaxTries,
	})
}

// Preview generates a candidate without touching the posted-dedup state.
func (s *Server) Preview(ctx context.Context) (*markov.Result, error) {
	model, err := s.buildModel(ctx)
	if err != nil {
		return nil, err
	}
	return s.generate(model)
}

// Compose produces the text for this cycle's post: an accepted generation
// that has never been published before. The winning text's hash is marked
// posted before Compose returns, so a crash between compose and publish errs
// on the side of never double posting.
func (s *Server) Compose(ctx context.Context) (string, error) {
	model, err := s.buildModel(ctx)
	if err != nil {
		return "", err
	}

	for i := 0; i < dedupeBudget; i++ {
		res, err := s.generate(model)
		if err != nil {
			return "", err
		}

		// hash the folded text so casing or accent differences don't sneak
		// an effective repeat past the check
		hash := corpus.HashOf(cleantext.Fold(res.Text))
		if _, seen := s.recent.Get(hash); seen {
			continue
		}
		posted, err := s.store.WasPosted(ctx, hash)
		if err != nil {
			return "", fmt.Errorf("checking posted markers: %w", err)
		}
		if posted {
			s.recent.Add(hash, true)
			continue
		}

		if err := s.store.MarkPosted(ctx, hash); err != nil {
			return "", fmt.Errorf("marking posted: %w", err)
		}
		s.recent.Add(hash, true)
		return res.Text, nil
	}
	return "", ErrRepeatedOutput
}

// PublishAll posts the text to every connected platform. One platform
// failing does not stop the others; all failures come back joined.
func (s *Server) PublishAll(ctx context.Context, text string) error {
	var errs []error
	for _, p := range s.platforms {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		uri, err := p.Publish(ctx, text)
		if err != nil {
			publishErrors.WithLabelValues(p.Name()).Inc()
			errs = append(errs, fmt.Errorf("publishing to %s: %w", p.Name(), err))
			continue
		}
		postsPublished.WithLabelValues(p.Name()).Inc()
		s.logger.Info("published post", "platform", p.Name(), "uri", uri, "chars", utf8.RuneCountInString(text))
	}
	return errors.Join(errs...)
}
