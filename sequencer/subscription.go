package sequencer

import (
	"sync"

	"github.com/bluesky-social/pds-sequencer/events"
)

// Subscription receives every batch the poll loop emits after it was
// created. Events are shared between subscribers and must not be modified.
//
// Writers never wait on subscribers: if a subscription's buffer is full when
// a batch is emitted, the subscription is closed with ErrConsumerTooSlow and
// the consumer has to resume from its last seq through the catch-up methods.
type Subscription struct {
	seq *Sequencer

	ch   chan []*events.SeqEvt
	done chan struct{}

	once sync.Once
	err  error
}

// Events delivers batches in seq order. It is closed once the subscription
// ends, after any batches still buffered.
func (sub *Subscription) Events() <-chan []*events.SeqEvt {
	return sub.ch
}

// Done is closed when the subscription ends.
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

// Err reports why the subscription ended: nil while open or after Close,
// ErrSequencerClosed or ErrConsumerTooSlow otherwise.
func (sub *Subscription) Err() error {
	select {
	case <-sub.done:
		return sub.err
	default:
		return nil
	}
}

func (sub *Subscription) Close() {
	sub.seq.removeSub(sub, nil)
}

// finish must be called with the sequencer's subsLk held, which keeps it from
// racing a broadcast send.
func (sub *Subscription) finish(err error) {
	sub.once.Do(func() {
		sub.err = err
		close(sub.done)
		close(sub.ch)
	})
}

// Subscribe registers a new live subscription with the default buffer.
func (s *Sequencer) Subscribe() *Subscription {
	return s.subscribe(s.subscriberBuffer)
}

func (s *Sequencer) subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = s.subscriberBuffer
	}
	sub := &Subscription{
		seq:  s,
		ch:   make(chan []*events.SeqEvt, buffer),
		done: make(chan struct{}),
	}

	s.subsLk.Lock()
	defer s.subsLk.Unlock()

	if s.isDestroyed() {
		sub.finish(ErrSequencerClosed)
		return sub
	}
	s.subs[sub] = struct{}{}
	subscribersActive.Set(float64(len(s.subs)))
	return sub
}

// SubscriberCount is the number of open live subscriptions.
func (s *Sequencer) SubscriberCount() int {
	s.subsLk.Lock()
	defer s.subsLk.Unlock()
	return len(s.subs)
}

func (s *Sequencer) removeSub(sub *Subscription, err error) {
	s.subsLk.Lock()
	defer s.subsLk.Unlock()

	delete(s.subs, sub)
	subscribersActive.Set(float64(len(s.subs)))
	sub.finish(err)
}

func (s *Sequencer) broadcast(evts []*events.SeqEvt) {
	s.subsLk.Lock()
	defer s.subsLk.Unlock()

	for sub := range s.subs {
		select {
		case sub.ch <- evts:
		default:
			slowConsumers.Inc()
			s.log.Warn("closing slow subscriber", "buffered", len(sub.ch), "last_seq", evts[len(evts)-1].Seq)
			delete(s.subs, sub)
			sub.finish(ErrConsumerTooSlow)
		}
	}
	subscribersActive.Set(float64(len(s.subs)))
	eventsEmitted.Add(float64(len(evts)))
}
