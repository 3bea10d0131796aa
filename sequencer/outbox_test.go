package sequencer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outboxResult struct {
	evts chan *events.SeqEvt
	err  chan error
}

func runOutbox(ctx context.Context, o *Outbox, cursor *int64) *outboxResult {
	res := &outboxResult{
		evts: make(chan *events.SeqEvt, 100),
		err:  make(chan error, 1),
	}
	go func() {
		res.err <- o.Events(ctx, cursor, func(evt *events.SeqEvt) error {
			res.evts <- evt
			return nil
		})
	}()
	return res
}

func (res *outboxResult) take(t *testing.T, n int) []*events.SeqEvt {
	t.Helper()
	var out []*events.SeqEvt
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case evt := <-res.evts:
			out = append(out, evt)
		case err := <-res.err:
			t.Fatalf("outbox ended early: %v", err)
		case <-timeout:
			t.Fatalf("timed out with %d of %d events", len(out), n)
		}
	}
	return out
}

func TestOutboxBackfillThenLive(t *testing.T) {
	assert := assert.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testSequencer(t, testStore(t), nil)
	require.NoError(t, s.Start(ctx))
	for i := 0; i < 5; i++ {
		_, err := s.SequenceTombstone(ctx, fmt.Sprintf("did:plc:old%d", i))
		require.NoError(t, err)
	}

	o := NewOutbox(s, &OutboxOptions{PageSize: 2})
	cursor := int64(1)
	res := runOutbox(ctx, o, &cursor)

	for i := 0; i < 3; i++ {
		_, err := s.SequenceTombstone(ctx, fmt.Sprintf("did:plc:new%d", i))
		require.NoError(t, err)
	}

	evts := res.take(t, 7)
	assert.Equal([]int64{2, 3, 4, 5, 6, 7, 8}, seqsOf(evts))

	// nothing is delivered twice
	select {
	case evt := <-res.evts:
		t.Fatalf("unexpected extra event %d", evt.Seq)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(<-res.err, context.Canceled)
}

func TestOutboxLiveOnly(t *testing.T) {
	assert := assert.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testSequencer(t, testStore(t), nil)
	require.NoError(t, s.Start(ctx))
	_, err := s.SequenceTombstone(ctx, "did:plc:before")
	require.NoError(t, err)
	// seq 1 must already be emitted, or the new subscription would see it
	require.Eventually(t, func() bool { return s.LastSeen() == 1 }, 5*time.Second, 5*time.Millisecond)

	res := runOutbox(ctx, NewOutbox(s, nil), nil)
	require.Eventually(t, func() bool { return s.SubscriberCount() == 1 }, 5*time.Second, 5*time.Millisecond)

	_, err = s.SequenceTombstone(ctx, "did:plc:after")
	require.NoError(t, err)

	evts := res.take(t, 1)
	assert.Equal("did:plc:after", evts[0].Did())
	assert.Equal(int64(2), evts[0].Seq)
}

func TestOutboxEndsWithSequencer(t *testing.T) {
	ctx := context.Background()
	s := testSequencer(t, testStore(t), nil)
	require.NoError(t, s.Start(ctx))

	res := runOutbox(ctx, NewOutbox(s, nil), nil)
	require.Eventually(t, func() bool { return s.SubscriberCount() == 1 }, 5*time.Second, 5*time.Millisecond)

	s.Destroy()
	select {
	case err := <-res.err:
		assert.ErrorIs(t, err, ErrSequencerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("outbox did not end")
	}
}

func TestResolveCursor(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := testStore(t)
	s := testSequencer(t, store, nil)
	require.NoError(t, s.Start(ctx))

	old := util.FormatTimestamp(time.Now().Add(-48 * time.Hour))
	for _, did := range []string{"did:plc:a", "did:plc:b"} {
		row, err := events.FormatTombstone(did)
		require.NoError(t, err)
		row.SequencedAt = old
		_, err = store.Insert(ctx, row)
		require.NoError(t, err)
	}

	o := NewOutbox(s, nil)

	// everything is outside the window
	resolved, outdated, err := o.ResolveCursor(ctx, 0)
	require.NoError(t, err)
	assert.True(outdated)
	assert.Nil(resolved)

	for _, did := range []string{"did:plc:c", "did:plc:d"} {
		_, err := s.SequenceTombstone(ctx, did)
		require.NoError(t, err)
	}

	resolved, outdated, err = o.ResolveCursor(ctx, 0)
	require.NoError(t, err)
	assert.True(outdated)
	require.NotNil(t, resolved)
	assert.Equal(int64(2), *resolved)

	resolved, outdated, err = o.ResolveCursor(ctx, 3)
	require.NoError(t, err)
	assert.False(outdated)
	assert.Equal(int64(3), *resolved)

	// caught up
	resolved, outdated, err = o.ResolveCursor(ctx, 4)
	require.NoError(t, err)
	assert.False(outdated)
	assert.Equal(int64(4), *resolved)

	_, _, err = o.ResolveCursor(ctx, 5)
	assert.ErrorIs(err, ErrFutureCursor)

	unlimited := NewOutbox(s, &OutboxOptions{BackfillLimit: -1})
	resolved, outdated, err = unlimited.ResolveCursor(ctx, 0)
	require.NoError(t, err)
	assert.False(outdated)
	assert.Equal(int64(0), *resolved)
}
