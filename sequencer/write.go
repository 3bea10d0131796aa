package sequencer

import (
	"context"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/models"
	"github.com/bluesky-social/pds-sequencer/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("sequencer")

// SequenceCommit appends a repository commit to the log and returns its seq.
// Commits over the size limits are sequenced with TooBig set and no ops.
func (s *Sequencer) SequenceCommit(ctx context.Context, did string, commit *repo.CommitData, writes []repo.PreparedWrite) (int64, error) {
	ctx, span := tracer.Start(ctx, "SequenceCommit")
	defer span.End()
	span.SetAttributes(attribute.String("did", did), attribute.Int("writes", len(writes)))

	row, err := events.FormatCommit(did, commit, writes)
	if err != nil {
		return 0, spanErr(span, err)
	}
	return s.sequenceEvt(ctx, span, row)
}

func (s *Sequencer) SequenceHandleUpdate(ctx context.Context, did, handle string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SequenceHandleUpdate")
	defer span.End()
	span.SetAttributes(attribute.String("did", did), attribute.String("handle", handle))

	row, err := events.FormatHandle(did, handle)
	if err != nil {
		return 0, spanErr(span, err)
	}
	return s.sequenceEvt(ctx, span, row)
}

// SequenceIdentityEvt records that did's identity (DID document or handle)
// may have changed. handle is optional.
func (s *Sequencer) SequenceIdentityEvt(ctx context.Context, did string, handle *string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SequenceIdentityEvt")
	defer span.End()
	span.SetAttributes(attribute.String("did", did))

	row, err := events.FormatIdentity(did, handle)
	if err != nil {
		return 0, spanErr(span, err)
	}
	return s.sequenceEvt(ctx, span, row)
}

func (s *Sequencer) SequenceAccountEvt(ctx context.Context, did string, status events.AccountStatus) (int64, error) {
	ctx, span := tracer.Start(ctx, "SequenceAccountEvt")
	defer span.End()
	span.SetAttributes(attribute.String("did", did), attribute.String("status", string(status)))

	row, err := events.FormatAccount(did, status)
	if err != nil {
		return 0, spanErr(span, err)
	}
	return s.sequenceEvt(ctx, span, row)
}

func (s *Sequencer) SequenceTombstone(ctx context.Context, did string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SequenceTombstone")
	defer span.End()
	span.SetAttributes(attribute.String("did", did))

	row, err := events.FormatTombstone(did)
	if err != nil {
		return 0, spanErr(span, err)
	}
	return s.sequenceEvt(ctx, span, row)
}

// sequenceEvt inserts a formatted row and pokes the crawlers. Store errors are
// returned as-is.
func (s *Sequencer) sequenceEvt(ctx context.Context, span trace.Span, row *models.RepoSeq) (int64, error) {
	seq, err := s.store.Insert(ctx, row)
	if err != nil {
		return 0, spanErr(span, err)
	}
	span.SetAttributes(attribute.Int64("seq", seq))
	eventsSequenced.WithLabelValues(row.EventType).Inc()

	if s.crawlers != nil {
		s.crawlers.NotifyOfUpdate()
	}
	return seq, nil
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
