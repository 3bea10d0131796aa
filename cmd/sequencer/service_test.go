package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bluesky-social/pds-sequencer/bgqueue"
	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/sequencer"
	"github.com/bluesky-social/pds-sequencer/util"
	"github.com/bluesky-social/pds-sequencer/util/cliutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "test-admin-token"

type testService struct {
	svc    *Service
	seq    *sequencer.Sequencer
	server *httptest.Server
}

func newTestService(t *testing.T) *testService {
	db, err := cliutil.SetupDatabase("sqlite://"+filepath.Join(t.TempDir(), "sequencer.sqlite"), 1)
	require.NoError(t, err)
	sqldb, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	seq, err := sequencer.NewSequencer(events.NewDbPersistence(db, nil), nil, nil)
	require.NoError(t, err)
	require.NoError(t, seq.Start(context.Background()))

	queue := bgqueue.New(1, 10, "test")
	config := DefaultServiceConfig()
	config.AdminToken = testAdminToken
	svc := NewService(db, seq, queue, config, nil)

	server := httptest.NewServer(svc)
	t.Cleanup(func() {
		seq.Destroy()
		server.Close()
		_ = queue.Shutdown(context.Background())
	})

	return &testService{svc: svc, seq: seq, server: server}
}

func (ts *testService) adminPost(t *testing.T, path, token string, body any) *http.Response {
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", ts.server.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *testService) dial(t *testing.T, query string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/xrpc/com.atproto.sync.subscribeRepos" + query
	con, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { con.Close() })
	return con
}

func readFrame(t *testing.T, con *websocket.Conn) (*events.SeqEvt, *events.InfoFrame, error) {
	t.Helper()
	require.NoError(t, con.SetReadDeadline(time.Now().Add(5*time.Second)))
	mt, b, err := con.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, mt)
	return events.ReadFrame(bytes.NewReader(b))
}

func TestHealthAndCurr(t *testing.T) {
	assert := assert.New(t)
	ts := newTestService(t)

	resp, err := http.Get(ts.server.URL + "/_health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(http.StatusOK, resp.StatusCode)
	var health HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal("ok", health.Status)

	_, err = ts.seq.SequenceTombstone(context.Background(), "did:plc:alice")
	require.NoError(t, err)

	resp, err = http.Get(ts.server.URL + "/xrpc/_sequencer.curr")
	require.NoError(t, err)
	defer resp.Body.Close()
	var curr CurrOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&curr))
	assert.Equal(int64(1), curr.Seq)
}

func TestAdminAuth(t *testing.T) {
	ts := newTestService(t)
	body := adminSequenceInput{Did: "did:plc:alice", Status: "takendown"}

	resp := ts.adminPost(t, "/admin/sequence/account", "", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.adminPost(t, "/admin/sequence/account", "wrong", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.adminPost(t, "/admin/sequence/account", testAdminToken, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out adminSequenceOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(1), out.Seq)

	resp = ts.adminPost(t, "/admin/sequence/account", testAdminToken, adminSequenceInput{Did: "did:plc:alice", Status: "banished"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.adminPost(t, "/admin/sequence/identity", testAdminToken, adminSequenceInput{Did: "alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminTombstonePurgesAccount(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	ts := newTestService(t)

	handle := "alice.test"
	resp := ts.adminPost(t, "/admin/sequence/handle", testAdminToken, adminSequenceInput{Did: "did:plc:alice", Handle: &handle})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = ts.adminPost(t, "/admin/sequence/identity", testAdminToken, adminSequenceInput{Did: "did:plc:bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.adminPost(t, "/admin/repo/tombstone", testAdminToken, adminSequenceInput{Did: "did:plc:alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out adminSequenceOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(int64(3), out.Seq)

	evts, err := ts.seq.RequestSeqRange(ctx, sequencer.RangeOpts{})
	require.NoError(t, err)
	require.Len(t, evts, 2)
	assert.Equal("did:plc:bob", evts[0].Did())
	assert.Equal(events.EvtTypeTombstone, evts[1].Type())
	assert.Equal("did:plc:alice", evts[1].Did())
}

func TestAdminInvalidateSeqs(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	ts := newTestService(t)

	for _, did := range []string{"did:plc:a", "did:plc:b", "did:plc:c"} {
		_, err := ts.seq.SequenceTombstone(ctx, did)
		require.NoError(t, err)
	}

	resp := ts.adminPost(t, "/admin/sequence/invalidate", "", adminInvalidateInput{Seqs: []int64{2}})
	assert.Equal(http.StatusForbidden, resp.StatusCode)
	resp = ts.adminPost(t, "/admin/sequence/invalidate", testAdminToken, adminInvalidateInput{})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	resp = ts.adminPost(t, "/admin/sequence/invalidate", testAdminToken, adminInvalidateInput{Seqs: []int64{0}})
	assert.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = ts.adminPost(t, "/admin/sequence/invalidate", testAdminToken, adminInvalidateInput{Seqs: []int64{2}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out adminInvalidateOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(1, out.Invalidated)

	con := ts.dial(t, "?cursor=0")
	for _, want := range []string{"did:plc:a", "did:plc:c"} {
		evt, _, err := readFrame(t, con)
		require.NoError(t, err)
		require.NotNil(t, evt)
		assert.Equal(want, evt.Did())
	}
}

func TestFirehoseBackfillThenLive(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	ts := newTestService(t)

	for _, did := range []string{"did:plc:a", "did:plc:b"} {
		_, err := ts.seq.SequenceTombstone(ctx, did)
		require.NoError(t, err)
	}

	con := ts.dial(t, "?cursor=0")
	for _, want := range []int64{1, 2} {
		evt, info, err := readFrame(t, con)
		require.NoError(t, err)
		assert.Nil(info)
		require.NotNil(t, evt)
		assert.Equal(want, evt.Seq)
		assert.Equal(events.EvtTypeTombstone, evt.Type())
	}

	_, err := ts.seq.SequenceAccountEvt(ctx, "did:plc:c", events.AccountStatusActive)
	require.NoError(t, err)

	evt, _, err := readFrame(t, con)
	require.NoError(t, err)
	assert.Equal(int64(3), evt.Seq)
	require.NotNil(t, evt.Account)
	assert.True(evt.Account.Active)
	assert.Nil(evt.Account.Status)
}

func TestFirehoseLiveOnly(t *testing.T) {
	ctx := context.Background()
	ts := newTestService(t)

	_, err := ts.seq.SequenceTombstone(ctx, "did:plc:before")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return ts.seq.LastSeen() == 1 }, 5*time.Second, 10*time.Millisecond)

	con := ts.dial(t, "")
	// the consumer is registered before the outbox subscribes, so wait on the
	// subscription itself
	require.Eventually(t, func() bool { return ts.seq.SubscriberCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	_, err = ts.seq.SequenceTombstone(ctx, "did:plc:after")
	require.NoError(t, err)

	evt, _, err := readFrame(t, con)
	require.NoError(t, err)
	assert.Equal(t, "did:plc:after", evt.Did())
}

func TestFirehoseFutureCursor(t *testing.T) {
	ts := newTestService(t)

	con := ts.dial(t, "?cursor=100")
	_, _, err := readFrame(t, con)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FutureCursor")
}

func TestFirehoseBadCursor(t *testing.T) {
	ts := newTestService(t)

	resp, err := http.Get(ts.server.URL + "/xrpc/com.atproto.sync.subscribeRepos?cursor=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTailLine(t *testing.T) {
	assert := assert.New(t)

	status := events.AccountStatusSuspended
	line := tailLineFor(&events.SeqEvt{
		Seq:     9,
		Time:    "2024-01-01T00:00:00.000Z",
		Account: &events.AccountEvt{Did: "did:plc:a", Status: &status},
	})
	assert.Equal("account", line.Type)
	assert.Equal("did:plc:a", line.Did)
	require.NotNil(t, line.Status)
	assert.Equal("suspended", *line.Status)
	assert.False(*line.Active)
}

func TestServiceShutdown(t *testing.T) {
	ts := newTestService(t)

	li, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() {
		served <- ts.svc.StartWithListener(li)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + li.Addr().String() + "/_health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.svc.Shutdown(ctx))

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = ts.seq.SequenceTombstone(context.Background(), "did:plc:late")
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts.seq.LastSeen())
}

func TestTailReadsStream(t *testing.T) {
	ctx := context.Background()
	ts := newTestService(t)

	for _, did := range []string{"did:plc:a", "did:plc:b", "did:plc:c"} {
		_, err := ts.seq.SequenceTombstone(ctx, did)
		require.NoError(t, err)
	}

	var cursor int64
	u, err := util.FirehoseURL(ts.server.URL, &cursor)
	require.NoError(t, err)
	con, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer con.Close()

	errDone := errors.New("done")
	var lines []tailLine
	err = events.HandleRepoStream(ctx, con, func(evt *events.SeqEvt) error {
		lines = append(lines, tailLineFor(evt))
		if len(lines) == 3 {
			return errDone
		}
		return nil
	})
	require.ErrorIs(t, err, errDone)
	require.Len(t, lines, 3)
	assert.Equal(t, "did:plc:c", lines[2].Did)
	assert.Equal(t, "tombstone", lines[2].Type)
	assert.Equal(t, int64(3), lines[2].Seq)
}
