package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/sequencer"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var eventsSentCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sequencer_events_sent_total",
	Help: "The total number of events sent to firehose consumers",
}, []string{"remote_addr", "user_agent"})

var consumersConnected = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "sequencer_consumers_connected",
	Help: "Number of connected firehose consumers",
})

type SocketConsumer struct {
	UserAgent   string
	RemoteAddr  string
	ConnectedAt time.Time
	EventsSent  prometheus.Counter
}

func (svc *Service) registerConsumer(c *SocketConsumer) uint64 {
	svc.consumersLk.Lock()
	defer svc.consumersLk.Unlock()

	id := svc.nextConsumerID
	svc.nextConsumerID++

	svc.consumers[id] = c
	consumersConnected.Set(float64(len(svc.consumers)))

	return id
}

func (svc *Service) cleanupConsumer(id uint64) {
	svc.consumersLk.Lock()
	defer svc.consumersLk.Unlock()

	c := svc.consumers[id]

	var m = &dto.Metric{}
	if err := c.EventsSent.Write(m); err != nil {
		svc.logger.Error("failed to get sent counter", "err", err)
	}

	svc.logger.Info("consumer disconnected",
		"consumer_id", id,
		"remote_addr", c.RemoteAddr,
		"user_agent", c.UserAgent,
		"events_sent", m.Counter.GetValue())

	delete(svc.consumers, id)
	consumersConnected.Set(float64(len(svc.consumers)))
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  10 << 10,
	WriteBufferSize: 10 << 10,
}

// GET+websocket /xrpc/com.atproto.sync.subscribeRepos
func (svc *Service) EventsHandler(c echo.Context) error {
	var cursor *int64
	if cursorVal := c.QueryParam("cursor"); cursorVal != "" {
		cval, err := strconv.ParseInt(cursorVal, 10, 64)
		if err != nil || cval < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "cursor must be a non-negative integer")
		}
		cursor = &cval
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), c.Response().Header())
	if err != nil {
		return fmt.Errorf("upgrading websocket: %w", err)
	}

	defer func() {
		_ = conn.Close()
	}()

	lastWriteLk := sync.Mutex{}
	lastWrite := time.Now()

	// Ping the client every 30 seconds of write silence; if a ping can't be
	// written within 5 seconds the consumer is torn down.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				lastWriteLk.Lock()
				lw := lastWrite
				lastWriteLk.Unlock()

				if time.Since(lw) < 30*time.Second {
					continue
				}

				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(5*time.Second)); err != nil {
					svc.logger.Warn("failed to ping client", "err", err)
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	conn.SetPingHandler(func(message string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second*60))
		if err == websocket.ErrCloseSent {
			return nil
		} else if e, ok := err.(net.Error); ok && e.Timeout() {
			return nil
		}
		return err
	})

	// Read messages from the client and discard them; a read error means the
	// client is gone.
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				svc.logger.Debug("failed to read message from client", "err", err)
				cancel()
				return
			}
		}
	}()

	writeFrame := func(write func(w *websocket.Conn) error) error {
		if err := write(conn); err != nil {
			return err
		}
		lastWriteLk.Lock()
		lastWrite = time.Now()
		lastWriteLk.Unlock()
		return nil
	}

	if cursor != nil {
		resolved, outdated, err := svc.outbox.ResolveCursor(ctx, *cursor)
		if errors.Is(err, sequencer.ErrFutureCursor) {
			return writeErrorFrame(conn, "FutureCursor", "Cursor in the future.")
		}
		if err != nil {
			return err
		}
		if outdated {
			err := writeFrame(func(conn *websocket.Conn) error {
				return writeInfoFrame(conn, "OutdatedCursor", "Requested cursor exceeded limit. Possibly missing events")
			})
			if err != nil {
				return err
			}
		}
		if resolved == nil {
			// nothing left inside the backfill window, start from live events
			cursor = nil
		} else {
			cursor = resolved
		}
	}

	// Keep track of the consumer for metrics and admin endpoints
	consumer := SocketConsumer{
		RemoteAddr:  c.RealIP(),
		UserAgent:   c.Request().UserAgent(),
		ConnectedAt: time.Now(),
	}
	sentCounter := eventsSentCounter.WithLabelValues(consumer.RemoteAddr, consumer.UserAgent)
	consumer.EventsSent = sentCounter

	consumerID := svc.registerConsumer(&consumer)
	defer svc.cleanupConsumer(consumerID)

	logger := svc.logger.With(
		"consumer_id", consumerID,
		"remote_addr", consumer.RemoteAddr,
		"user_agent", consumer.UserAgent,
	)
	logger.Info("new consumer", "cursor", cursor)

	err = svc.outbox.Events(ctx, cursor, func(evt *events.SeqEvt) error {
		err := writeFrame(func(conn *websocket.Conn) error {
			wc, err := conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				return fmt.Errorf("failed to get next writer: %w", err)
			}
			if err := evt.WriteFrame(wc); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
			return wc.Close()
		})
		if err != nil {
			return err
		}
		sentCounter.Inc()
		return nil
	})

	switch {
	case errors.Is(err, sequencer.ErrConsumerTooSlow):
		logger.Warn("dropping slow consumer")
		return writeErrorFrame(conn, "ConsumerTooSlow", "Stream consumer too slow")
	case errors.Is(err, sequencer.ErrSequencerClosed), errors.Is(err, context.Canceled):
		return nil
	case err != nil:
		logger.Warn("consumer stream ended", "err", err)
		return nil
	}
	return nil
}

func writeErrorFrame(conn *websocket.Conn, name, msg string) error {
	wc, err := conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := events.WriteErrorFrame(wc, name, msg); err != nil {
		return err
	}
	return wc.Close()
}

func writeInfoFrame(conn *websocket.Conn, name, msg string) error {
	wc, err := conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return err
	}
	if err := events.WriteInfoFrame(wc, name, msg); err != nil {
		return err
	}
	return wc.Close()
}

type ConsumerInfo struct {
	ID          uint64    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	UserAgent   string    `json:"user_agent"`
	EventsSent  uint64    `json:"events_sent"`
	ConnectedAt time.Time `json:"connected_at"`
}

// GET /admin/consumers/list
func (svc *Service) handleAdminListConsumers(c echo.Context) error {
	svc.consumersLk.Lock()
	defer svc.consumersLk.Unlock()

	out := make([]ConsumerInfo, 0, len(svc.consumers))
	for id, consumer := range svc.consumers {
		var m = &dto.Metric{}
		if err := consumer.EventsSent.Write(m); err != nil {
			continue
		}
		out = append(out, ConsumerInfo{
			ID:          id,
			RemoteAddr:  consumer.RemoteAddr,
			UserAgent:   consumer.UserAgent,
			EventsSent:  uint64(m.Counter.GetValue()),
			ConnectedAt: consumer.ConnectedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
