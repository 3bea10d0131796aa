// Package sequencer turns repository mutations into a single ordered,
// persisted, replayable event stream.
//
// Writers append events to the log through the Sequence* methods. A single
// poll loop per Sequencer tails the log and hands each new batch of events to
// every live Subscription, in seq order. Consumers that fall behind, or that
// start from a cursor, read the log directly through the catch-up methods (or
// an Outbox, which combines both).
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	ErrAlreadyStarted  = errors.New("sequencer already started")
	ErrSequencerClosed = errors.New("sequencer closed")
	ErrConsumerTooSlow = errors.New("stream consumer too slow")
)

const (
	DefaultPollLimit        = 1000
	DefaultSubscriberBuffer = 500
	DefaultCacheSize        = 10_000

	// MaxBackoff caps the wait between polls that found nothing.
	MaxBackoff = time.Second
)

// LogStore is the durable log the sequencer writes to and tails.
// events.DbPersistence is the production implementation.
type LogStore interface {
	Migrate() error
	Insert(ctx context.Context, row *models.RepoSeq) (int64, error)
	SelectMax(ctx context.Context) (int64, error)
	SelectRange(ctx context.Context, q events.RangeQuery) ([]*models.RepoSeq, error)
	Next(ctx context.Context, cursor int64) (*models.RepoSeq, error)
	EarliestAfterTime(ctx context.Context, t time.Time) (*models.RepoSeq, error)
	DeleteByDid(ctx context.Context, did string, exceptSeqs []int64) error
	InvalidateSeqs(ctx context.Context, seqs []int64) error
}

// Notifier is told after every successful write. crawlers.Crawlers is the
// production implementation.
type Notifier interface {
	NotifyOfUpdate() bool
}

type Options struct {
	// max rows read per poll
	PollLimit int

	// batches buffered per subscription before it is closed as too slow
	SubscriberBuffer int

	// decoded events kept in memory for catch-up reads
	CacheSize int

	Logger *slog.Logger
}

func DefaultOptions() *Options {
	return &Options{
		PollLimit:        DefaultPollLimit,
		SubscriberBuffer: DefaultSubscriberBuffer,
		CacheSize:        DefaultCacheSize,
	}
}

type Sequencer struct {
	store    LogStore
	crawlers Notifier

	pollLimit        int
	subscriberBuffer int

	lastSeen atomic.Int64

	// owned by the poll loop goroutine
	triesWithNoResults int

	lk        sync.Mutex
	started   bool
	destroyed bool
	loopDone  chan struct{}

	// closed by Destroy to cut short a backoff wait
	stop chan struct{}

	subsLk sync.Mutex
	subs   map[*Subscription]struct{}

	cache *lru.Cache[int64, *events.SeqEvt]

	log *slog.Logger
}

func NewSequencer(store LogStore, crawlers Notifier, opts *Options) (*Sequencer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	pollLimit := opts.PollLimit
	if pollLimit <= 0 {
		pollLimit = DefaultPollLimit
	}
	subBuf := opts.SubscriberBuffer
	if subBuf <= 0 {
		subBuf = DefaultSubscriberBuffer
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("system", "sequencer")
	}

	cache, err := lru.New[int64, *events.SeqEvt](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating event cache: %w", err)
	}

	return &Sequencer{
		store:            store,
		crawlers:         crawlers,
		pollLimit:        pollLimit,
		subscriberBuffer: subBuf,
		stop:             make(chan struct{}),
		subs:             make(map[*Subscription]struct{}),
		cache:            cache,
		log:              logger,
	}, nil
}

// Start prepares the log table, picks up from the current end of the log, and
// launches the poll loop. Only events sequenced after Start are emitted to
// subscribers; older events are read through the catch-up methods.
func (s *Sequencer) Start(ctx context.Context) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	if s.destroyed {
		return ErrSequencerClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	if err := s.store.Migrate(); err != nil {
		return fmt.Errorf("migrating sequencer log: %w", err)
	}
	curr, err := s.store.SelectMax(ctx)
	if err != nil {
		return fmt.Errorf("reading current seq: %w", err)
	}
	s.lastSeen.Store(curr)
	lastSeenSeq.Set(float64(curr))

	s.started = true
	s.loopDone = make(chan struct{})
	go s.pollLoop()

	s.log.Info("sequencer started", "last_seen", curr)
	return nil
}

// LastSeen is the highest seq the poll loop has emitted (or started from).
func (s *Sequencer) LastSeen() int64 {
	return s.lastSeen.Load()
}

// Destroy stops the poll loop, waiting for an in-flight poll to finish, then
// closes every subscription with ErrSequencerClosed. It is safe to call more
// than once.
func (s *Sequencer) Destroy() {
	s.lk.Lock()
	if s.destroyed {
		s.lk.Unlock()
		return
	}
	s.destroyed = true
	close(s.stop)
	loopDone := s.loopDone
	s.lk.Unlock()

	if loopDone != nil {
		<-loopDone
	}

	s.subsLk.Lock()
	for sub := range s.subs {
		delete(s.subs, sub)
		sub.finish(ErrSequencerClosed)
	}
	subscribersActive.Set(0)
	s.subsLk.Unlock()

	s.log.Info("sequencer destroyed", "last_seen", s.lastSeen.Load())
}

func (s *Sequencer) isDestroyed() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// BackoffDuration is the wait after the given number of consecutive empty or
// failed polls: 2^tries milliseconds, capped at MaxBackoff.
func BackoffDuration(tries int) time.Duration {
	if tries < 0 {
		tries = 0
	}
	if tries >= 10 {
		return MaxBackoff
	}
	return min(time.Duration(1<<tries)*time.Millisecond, MaxBackoff)
}

func (s *Sequencer) pollLoop() {
	defer close(s.loopDone)

	// polls are never interrupted mid-flight; Destroy waits for them instead
	ctx := context.Background()

	for {
		if s.isDestroyed() {
			return
		}

		n, err := s.pollOnce(ctx)
		if err != nil {
			pollErrors.Inc()
			s.log.Error("sequencer failed to poll db", "err", err, "last_seen", s.lastSeen.Load())
		}
		if err == nil && n > 0 {
			s.triesWithNoResults = 0
			continue
		}

		wait := BackoffDuration(s.triesWithNoResults)
		s.triesWithNoResults++

		t := time.NewTimer(wait)
		select {
		case <-s.stop:
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// pollOnce reads the next page of the log past lastSeen and emits it as one
// batch. It returns the number of rows read.
func (s *Sequencer) pollOnce(ctx context.Context) (int, error) {
	rows, err := s.store.SelectRange(ctx, events.RangeQuery{
		AfterSeq: s.lastSeen.Load(),
		Limit:    s.pollLimit,
	})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	evts := s.decodeRows(rows)
	if len(evts) > 0 {
		s.broadcast(evts)
	}

	last := rows[len(rows)-1].Seq
	s.lastSeen.Store(last)
	lastSeenSeq.Set(float64(last))
	pollBatches.Inc()

	return len(rows), nil
}

// decodeRows decodes log rows, skipping (and logging) any that cannot be
// decoded, and caches the results.
func (s *Sequencer) decodeRows(rows []*models.RepoSeq) []*events.SeqEvt {
	out := make([]*events.SeqEvt, 0, len(rows))
	for _, row := range rows {
		if evt, ok := s.cache.Get(row.Seq); ok {
			out = append(out, evt)
			continue
		}
		evt, err := events.DecodeRow(row)
		if err != nil {
			decodeErrors.Inc()
			s.log.Error("skipping undecodable event", "seq", row.Seq, "did", row.Did, "type", row.EventType, "err", err)
			continue
		}
		s.cache.Add(evt.Seq, evt)
		out = append(out, evt)
	}
	return out
}
