package crawlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bluesky-social/pds-sequencer/api/atproto"
	"github.com/bluesky-social/pds-sequencer/bgqueue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	lk sync.Mutex
	t  time.Time
}

func (fc *fakeClock) Now() time.Time {
	fc.lk.Lock()
	defer fc.lk.Unlock()
	return fc.t
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.lk.Lock()
	defer fc.lk.Unlock()
	fc.t = fc.t.Add(d)
}

type mockCrawler struct {
	lk        sync.Mutex
	hostnames []string
	status    int
	srv       *httptest.Server
}

func newMockCrawler(t *testing.T, status int) *mockCrawler {
	mc := &mockCrawler{status: status}
	mc.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/xrpc/com.atproto.sync.requestCrawl" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var in atproto.SyncRequestCrawl_Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mc.lk.Lock()
		mc.hostnames = append(mc.hostnames, in.Hostname)
		mc.lk.Unlock()

		w.WriteHeader(mc.status)
		if mc.status != http.StatusOK {
			w.Write([]byte(`{"error":"InternalError","message":"nope"}`))
		}
	}))
	t.Cleanup(mc.srv.Close)
	return mc
}

func (mc *mockCrawler) calls() []string {
	mc.lk.Lock()
	defer mc.lk.Unlock()
	return append([]string(nil), mc.hostnames...)
}

func TestNotifyThrottle(t *testing.T) {
	assert := assert.New(t)

	a := newMockCrawler(t, http.StatusOK)
	b := newMockCrawler(t, http.StatusOK)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	q := bgqueue.New(2, 10, "crawlers-test")
	c := NewCrawlers("pds.example.com", []string{a.srv.URL, b.srv.URL}, q, &Options{Now: clock.Now})

	assert.True(c.NotifyOfUpdate())

	clock.Advance(time.Minute)
	assert.False(c.NotifyOfUpdate())

	clock.Advance(18 * time.Minute)
	assert.False(c.NotifyOfUpdate())

	clock.Advance(2 * time.Minute)
	assert.True(c.NotifyOfUpdate())
	assert.False(c.NotifyOfUpdate())

	require.NoError(t, q.Shutdown(context.Background()))

	assert.Equal([]string{"pds.example.com", "pds.example.com"}, a.calls())
	assert.Equal([]string{"pds.example.com", "pds.example.com"}, b.calls())
}

func TestNotifyFailuresAreSwallowed(t *testing.T) {
	assert := assert.New(t)

	bad := newMockCrawler(t, http.StatusInternalServerError)
	good := newMockCrawler(t, http.StatusOK)

	q := bgqueue.New(1, 10, "crawlers-test-fail")
	c := NewCrawlers("pds.example.com", []string{bad.srv.URL, "http://127.0.0.1:1", good.srv.URL}, q, nil)

	assert.True(c.NotifyOfUpdate())
	require.NoError(t, q.Shutdown(context.Background()))

	assert.Len(bad.calls(), 1)
	assert.Len(good.calls(), 1)
}

func TestNoCrawlersConfigured(t *testing.T) {
	q := bgqueue.New(1, 1, "crawlers-test-empty")
	defer q.Shutdown(context.Background())

	c := NewCrawlers("pds.example.com", []string{"", " "}, q, nil)
	assert.False(t, c.NotifyOfUpdate())
	assert.Empty(t, c.Crawlers())
}

func TestNormalizeHost(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("https://bsky.network", normalizeHost("bsky.network"))
	assert.Equal("https://bsky.network", normalizeHost("https://bsky.network/"))
	assert.Equal("http://localhost:2470", normalizeHost("http://localhost:2470"))
}
