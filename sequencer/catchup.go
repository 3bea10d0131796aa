package sequencer

import (
	"context"
	"time"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/models"
)

// RangeOpts bounds a catch-up read. Zero values leave a bound open.
type RangeOpts struct {
	// exclusive
	EarliestSeq int64
	// inclusive
	LatestSeq int64
	// events sequenced at or after this time
	EarliestTime time.Time
	Limit        int
}

// RequestSeqRange reads decoded events from the log in seq order. Invalidated
// and undecodable rows are left out; an empty range is not an error.
func (s *Sequencer) RequestSeqRange(ctx context.Context, opts RangeOpts) ([]*events.SeqEvt, error) {
	evts, _, err := s.requestSeqRange(ctx, opts)
	return evts, err
}

// requestSeqRange also returns the seq of the last row read, decodable or
// not, so callers can page past bad rows. It is 0 if no rows were read.
func (s *Sequencer) requestSeqRange(ctx context.Context, opts RangeOpts) ([]*events.SeqEvt, int64, error) {
	rows, err := s.store.SelectRange(ctx, events.RangeQuery{
		AfterSeq:           opts.EarliestSeq,
		BeforeSeqInclusive: opts.LatestSeq,
		AfterTime:          opts.EarliestTime,
		Limit:              opts.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}
	return s.decodeRows(rows), rows[len(rows)-1].Seq, nil
}

// EarliestAfterTime returns the first event sequenced at or after t, or nil.
func (s *Sequencer) EarliestAfterTime(ctx context.Context, t time.Time) (*events.SeqEvt, error) {
	row, err := s.store.EarliestAfterTime(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.decodeOne(row)
}

// Curr returns the highest seq in the log, or 0 if the log is empty.
func (s *Sequencer) Curr(ctx context.Context) (int64, error) {
	return s.store.SelectMax(ctx)
}

// Next returns the first event after cursor, or nil.
func (s *Sequencer) Next(ctx context.Context, cursor int64) (*events.SeqEvt, error) {
	row, err := s.store.Next(ctx, cursor)
	if err != nil {
		return nil, err
	}
	return s.decodeOne(row)
}

func (s *Sequencer) decodeOne(row *models.RepoSeq) (*events.SeqEvt, error) {
	if row == nil {
		return nil, nil
	}
	if evt, ok := s.cache.Get(row.Seq); ok {
		return evt, nil
	}
	evt, err := events.DecodeRow(row)
	if err != nil {
		return nil, err
	}
	s.cache.Add(evt.Seq, evt)
	return evt, nil
}

// DeleteAllForUser removes every event for did from the log, except the seqs
// listed in excludingSeqs (typically the account's tombstone).
func (s *Sequencer) DeleteAllForUser(ctx context.Context, did string, excludingSeqs []int64) error {
	if err := s.store.DeleteByDid(ctx, did, excludingSeqs); err != nil {
		return err
	}

	keep := make(map[int64]bool, len(excludingSeqs))
	for _, seq := range excludingSeqs {
		keep[seq] = true
	}
	for _, seq := range s.cache.Keys() {
		evt, ok := s.cache.Peek(seq)
		if ok && !keep[seq] && evt.Did() == did {
			s.cache.Remove(seq)
		}
	}

	s.log.Info("deleted sequenced events for account", "did", did, "kept", len(excludingSeqs))
	return nil
}

// InvalidateSeqs hides the given events from catch-up reads and from any poll
// that has not yet passed them. The rows stay in the log.
func (s *Sequencer) InvalidateSeqs(ctx context.Context, seqs []int64) error {
	if err := s.store.InvalidateSeqs(ctx, seqs); err != nil {
		return err
	}
	for _, seq := range seqs {
		s.cache.Remove(seq)
	}

	s.log.Info("invalidated sequenced events", "count", len(seqs))
	return nil
}
