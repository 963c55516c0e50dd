package warmer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/shogitt/internal/resource"
	"github.com/hupe1980/shogitt/model"
)

// ErrNilTarget is returned when a session is started without a table.
var ErrNilTarget = errors.New("warmer: nil target")

// entryBytes is the in-memory footprint charged per accepted entry: the
// padded size of model.Entry.
const entryBytes = 32

// Target is the table a session warms. The warmer serializes its stores, so
// unsynchronized backends are acceptable targets.
type Target interface {
	Store(e model.Entry)
	Size() int
}

// Config configures a Warmer.
type Config struct {
	// Strategy selects the per-category budget split.
	Strategy Strategy
	// MaxEntries caps accepted entries per session. Defaults to 4096.
	MaxEntries int
	// Timeout bounds a session's wall-clock time. 0 means no timeout.
	Timeout time.Duration
	// MemoryLimit caps the bytes charged for accepted entries. 0 means
	// unlimited.
	MemoryLimit int64
	// EntriesPerSec rate-limits generation. 0 means unlimited.
	EntriesPerSec int
	// Workers bounds concurrent category generators. Defaults to 2.
	Workers int
	// Book, if set, sources the book category from real positions instead of
	// synthetic ones.
	Book model.OpeningBook
	// Seed makes generation deterministic. 0 derives a seed from the clock.
	Seed uint64
	// Logger receives session diagnostics; nil disables logging.
	Logger *slog.Logger
}

// Result summarizes one warming session.
type Result struct {
	// SessionID identifies the session in logs and diagnostics.
	SessionID string
	// Strategy is the strategy the session ran under.
	Strategy Strategy
	// Generated counts candidate entries produced.
	Generated int
	// Accepted counts entries stored into the target.
	Accepted int
	// Duplicates counts candidates dropped because their hash key was
	// already generated this session.
	Duplicates int
	// MemoryUsed is the bytes charged for accepted entries. Never exceeds
	// Config.MemoryLimit when one is set.
	MemoryUsed int64
	// Elapsed is the session wall-clock time.
	Elapsed time.Duration
	// SuccessRate is Accepted/Generated in [0, 1].
	SuccessRate float64
	// ByCategory breaks Accepted down per category.
	ByCategory map[Category]int
}

// Warmer pre-populates transposition tables. Safe for concurrent use; every
// call to Warm or WarmFromBook runs an independent session with its own
// budgets.
type Warmer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Warmer.
func New(cfg Config) *Warmer {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 4096
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Warmer{cfg: cfg, logger: logger}
}

// errBudgetExhausted stops a worker when the session hit an entry or memory
// budget. It never escapes a session.
var errBudgetExhausted = errors.New("warmer: budget exhausted")

// session holds the shared state of one warming run.
type session struct {
	ctrl   *resource.Controller
	target Target
	max    int

	mu         sync.Mutex
	seen       *roaring64.Bitmap
	generated  int
	accepted   int
	duplicates int
	byCategory map[Category]int
}

// offer accounts one candidate and stores it unless it is a duplicate or a
// budget is exhausted. Dedupe, memory charge and store happen under one lock
// so unsynchronized targets stay safe.
func (s *session) offer(ctx context.Context, cat Category, e model.Entry) error {
	if err := s.ctrl.WaitEntry(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generated++

	if s.accepted >= s.max {
		return errBudgetExhausted
	}
	if !s.seen.CheckedAdd(e.HashKey) {
		s.duplicates++
		return nil
	}
	if err := s.ctrl.AcquireMemory(entryBytes); err != nil {
		return errBudgetExhausted
	}

	s.target.Store(e)
	s.accepted++
	s.byCategory[cat]++
	return nil
}

func (w *Warmer) newSession(target Target) *session {
	return &session{
		ctrl: resource.NewController(resource.Config{
			MemoryLimitBytes: w.cfg.MemoryLimit,
			MaxWorkers:       int64(w.cfg.Workers),
			EntriesPerSec:    w.cfg.EntriesPerSec,
		}),
		target:     target,
		max:        w.cfg.MaxEntries,
		seen:       roaring64.New(),
		byCategory: make(map[Category]int, numCategories),
	}
}

func (w *Warmer) seed() uint64 {
	if w.cfg.Seed != 0 {
		return w.cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Warm runs one session against target and reports what happened. Budget
// exhaustion and timeout end the session gracefully with a partial Result.
func (w *Warmer) Warm(ctx context.Context, target Target) (Result, error) {
	if target == nil {
		return Result{}, ErrNilTarget
	}

	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	id := uuid.NewString()
	start := time.Now()
	p := buildPlan(w.cfg.Strategy, w.cfg.MaxEntries, w.cfg.MemoryLimit)
	s := w.newSession(target)

	w.logger.Debug("warm session started",
		"session", id,
		"strategy", w.cfg.Strategy.String(),
		"target_size", target.Size(),
	)

	seed := w.seed()
	g, gctx := errgroup.WithContext(ctx)
	for cat := CategoryPosition; cat < numCategories; cat++ {
		count := p[cat]
		if count == 0 {
			continue
		}

		g.Go(func() error {
			if err := s.ctrl.AcquireWorker(gctx); err != nil {
				return nil
			}
			defer s.ctrl.ReleaseWorker()

			w.generate(gctx, s, cat, count, seed^(uint64(cat)+1)*0x9E3779B97F4A7C15)
			return nil
		})
	}
	_ = g.Wait()

	res := w.result(id, s, start)
	w.logger.Debug("warm session finished",
		"session", id,
		"generated", res.Generated,
		"accepted", res.Accepted,
		"memory_used", res.MemoryUsed,
	)
	return res, nil
}

// generate produces up to count entries of one category, stopping early on
// cancellation or budget exhaustion.
func (w *Warmer) generate(ctx context.Context, s *session, cat Category, count int, seed uint64) {
	gen := newGenerator(seed)

	var book []model.BookPosition
	if cat == CategoryBook && w.cfg.Book != nil {
		book = w.cfg.Book.Positions()
	}

	for i := 0; i < count; i++ {
		var e model.Entry
		if book != nil {
			if i >= len(book) {
				return
			}
			pos := book[i]
			if pos.Hash == 0 {
				continue
			}
			e = model.Entry{
				HashKey:  pos.Hash,
				Score:    pos.Score,
				Depth:    uint8(1 + gen.next()%4),
				Flag:     model.BoundExact,
				BestMove: pos.BestMove,
				Source:   model.SourceWarmer,
			}
		} else {
			e = gen.entry(cat)
		}

		if err := s.offer(ctx, cat, e); err != nil {
			return
		}
	}
}

// WarmFromBook runs a session that stores every book position at the given
// depth, under the same budgets as Warm.
func (w *Warmer) WarmFromBook(ctx context.Context, target Target, book model.OpeningBook, depth uint8) (Result, error) {
	if target == nil {
		return Result{}, ErrNilTarget
	}
	if book == nil {
		return Result{}, errors.New("warmer: nil book")
	}

	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	id := uuid.NewString()
	start := time.Now()
	s := w.newSession(target)

	for _, pos := range book.Positions() {
		if pos.Hash == 0 {
			continue
		}
		err := s.offer(ctx, CategoryBook, model.Entry{
			HashKey:  pos.Hash,
			Score:    pos.Score,
			Depth:    depth,
			Flag:     model.BoundExact,
			BestMove: pos.BestMove,
			Source:   model.SourceWarmer,
		})
		if err != nil {
			break
		}
	}

	return w.result(id, s, start), nil
}

func (w *Warmer) result(id string, s *session, start time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := 0.0
	if s.generated > 0 {
		rate = float64(s.accepted) / float64(s.generated)
	}

	byCat := make(map[Category]int, len(s.byCategory))
	for c, n := range s.byCategory {
		byCat[c] = n
	}

	return Result{
		SessionID:   id,
		Strategy:    w.cfg.Strategy,
		Generated:   s.generated,
		Accepted:    s.accepted,
		Duplicates:  s.duplicates,
		MemoryUsed:  s.ctrl.MemoryUsage(),
		Elapsed:     time.Since(start),
		SuccessRate: rate,
		ByCategory:  byCat,
	}
}
