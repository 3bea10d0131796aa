package events

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

type instrumentedReader struct {
	r            io.Reader
	bytesCounter prometheus.Counter
}

func (sr *instrumentedReader) Read(p []byte) (int, error) {
	n, err := sr.r.Read(p)
	sr.bytesCounter.Add(float64(n))
	return n, err
}

// HandleRepoStream reads frames from a subscribeRepos websocket and hands each
// decoded event to cb, until the connection fails, ctx is done, or cb returns
// an error. An error frame from the server ends the stream with that error.
func HandleRepoStream(ctx context.Context, con *websocket.Conn, cb func(*SeqEvt) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	remoteAddr := con.RemoteAddr().String()
	logger := slog.Default().With("system", "events-consumer", "remote_addr", remoteAddr)

	go func() {
		t := time.NewTicker(time.Second * 30)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				if err := con.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second*10)); err != nil {
					logger.Warn("failed to ping", "err", err)
				}
			case <-ctx.Done():
				con.Close()
				return
			}
		}
	}()

	lastSeq := int64(-1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		mt, rawReader, err := con.NextReader()
		if err != nil {
			return err
		}

		if mt != websocket.BinaryMessage {
			return fmt.Errorf("expected binary message from subscription endpoint")
		}

		r := &instrumentedReader{
			r:            rawReader,
			bytesCounter: bytesFromStreamCounter.WithLabelValues(remoteAddr),
		}

		evt, info, err := ReadFrame(r)
		if err != nil {
			return err
		}
		eventsFromStreamCounter.WithLabelValues(remoteAddr).Inc()

		if info != nil {
			logger.Info("info frame from stream", "name", info.Name, "message", info.Message)
			continue
		}

		if evt.Seq <= lastSeq {
			logger.Error("got events out of order from stream", "seq", evt.Seq, "prev", lastSeq)
		}
		lastSeq = evt.Seq

		if err := cb(evt); err != nil {
			return err
		}
	}
}
