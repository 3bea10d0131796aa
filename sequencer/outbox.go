package sequencer

import (
	"context"
	"errors"
	"time"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/util"
)

var ErrFutureCursor = errors.New("cursor in the future")

type OutboxOptions struct {
	// batches buffered for the live subscription while backfilling
	MaxBufferSize int

	// how far back a cursor may reach; older cursors are moved forward
	BackfillLimit time.Duration

	// events per catch-up read
	PageSize int
}

func DefaultOutboxOptions() *OutboxOptions {
	return &OutboxOptions{
		MaxBufferSize: 500,
		BackfillLimit: 24 * time.Hour,
		PageSize:      500,
	}
}

// Outbox streams events to a single consumer starting from an optional
// cursor: first from the log, then from a live subscription, without gaps or
// duplicates at the cutover.
type Outbox struct {
	seq  *Sequencer
	opts OutboxOptions
}

func NewOutbox(seq *Sequencer, opts *OutboxOptions) *Outbox {
	def := DefaultOutboxOptions()
	if opts == nil {
		opts = def
	}
	o := &Outbox{seq: seq, opts: *opts}
	if o.opts.MaxBufferSize <= 0 {
		o.opts.MaxBufferSize = def.MaxBufferSize
	}
	if o.opts.PageSize <= 0 {
		o.opts.PageSize = def.PageSize
	}
	return o
}

// ResolveCursor checks a consumer's cursor against the log. A cursor past the
// end of the log is rejected with ErrFutureCursor. A cursor whose next event
// is older than the backfill limit is moved up to the first event inside the
// window, and outdated is set; a nil result then means there is nothing to
// backfill.
func (o *Outbox) ResolveCursor(ctx context.Context, cursor int64) (resolved *int64, outdated bool, err error) {
	curr, err := o.seq.Curr(ctx)
	if err != nil {
		return nil, false, err
	}
	if cursor > curr {
		return nil, false, ErrFutureCursor
	}

	if o.opts.BackfillLimit <= 0 {
		return &cursor, false, nil
	}

	next, err := o.seq.Next(ctx, cursor)
	if err != nil {
		return nil, false, err
	}
	backfillTime := time.Now().Add(-o.opts.BackfillLimit)
	if next == nil || next.Time >= util.FormatTimestamp(backfillTime) {
		return &cursor, false, nil
	}

	start, err := o.seq.EarliestAfterTime(ctx, backfillTime)
	if err != nil {
		return nil, true, err
	}
	if start == nil {
		return nil, true, nil
	}
	c := start.Seq - 1
	return &c, true, nil
}

// Events calls fn for every event after cursor, then for every live event,
// until ctx is done, fn fails, or the live subscription ends. With a nil
// cursor only live events are delivered.
func (o *Outbox) Events(ctx context.Context, cursor *int64, fn func(*events.SeqEvt) error) error {
	// subscribe before backfilling so nothing emitted in between is lost
	sub := o.seq.subscribe(o.opts.MaxBufferSize)
	defer sub.Close()

	var lastSent int64
	if cursor != nil {
		lastSent = *cursor
		for {
			evts, lastRow, err := o.seq.requestSeqRange(ctx, RangeOpts{
				EarliestSeq: lastSent,
				Limit:       o.opts.PageSize,
			})
			if err != nil {
				return err
			}
			if lastRow == 0 {
				break
			}
			for _, evt := range evts {
				if err := fn(evt); err != nil {
					return err
				}
			}
			lastSent = lastRow
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					return err
				}
				return ErrSequencerClosed
			}
			for _, evt := range batch {
				if evt.Seq <= lastSent {
					continue
				}
				if err := fn(evt); err != nil {
					return err
				}
				lastSent = evt.Seq
			}
		}
	}
}
