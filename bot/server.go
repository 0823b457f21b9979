package bot

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/skywrite/mimic/cleantext"
	"github.com/skywrite/mimic/corpus"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// keeps recently-posted hashes in memory so a dedup check doesn't always hit
// the store
const recentPostsCap = 512

type Server struct {
	cfg       Config
	logger    *slog.Logger
	store     corpus.Store
	cleaner   *cleantext.Cleaner
	platforms []Platform
	limiter   *rate.Limiter
	recent    *expirable.LRU[string, bool]

	// guards rng: *rand.Rand is not safe for concurrent use, and both the
	// poll loop and the admin endpoints can generate
	genMu sync.Mutex
	rng   *rand.Rand
}

func NewServer(store corpus.Store, cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		cleaner: cleantext.New(cfg.ExcludedWords),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		recent:  expirable.NewLRU[string, bool](recentPostsCap, nil, 24*time.Hour),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetRand swaps the generation random source, for reproducible output.
func (s *Server) SetRand(rng *rand.Rand) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.rng = rng
}

// AddPlatform registers an already-constructed platform, in addition to (or
// instead of) whatever ConnectPlatforms sets up from config.
func (s *Server) AddPlatform(p Platform) {
	s.platforms = append(s.platforms, p)
}

// Run executes train/compose/publish cycles on the configured period until
// the context is cancelled. One cycle runs immediately at startup.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("bot starting up", "poll_period", s.cfg.PollPeriod,
		"state_size", s.cfg.StateSize, "min_chars", s.cfg.MinChars, "max_chars", s.cfg.MaxChars)

	ticker := time.NewTicker(s.cfg.PollPeriod)
	defer ticker.Stop()

	for {
		s.RunCycle(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("bot shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunCycle performs one full pass: pull new source posts into the corpus,
// generate a candidate, and publish it. Failures are logged and counted, not
// fatal: the next tick gets a fresh chance, possibly with more corpus data.
func (s *Server) RunCycle(ctx context.Context) {
	if n, err := s.TrainFromSources(ctx); err != nil {
		s.logger.Error("training pass failed", "err", err)
	} else if n > 0 {
		s.logger.Info("trained on new posts", "added", n)
	}

	text, err := s.Compose(ctx)
	if err != nil {
		composeFailures.Inc()
		s.logger.Warn("skipping posting cycle", "err", err)
		return
	}

	if err := s.PublishAll(ctx, text); err != nil {
		s.logger.Error("publishing failed", "err", err)
	}
}
