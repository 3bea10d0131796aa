// Package crawlers tells downstream relays that this service has new events,
// by calling com.atproto.sync.requestCrawl on each of them. Notifications are
// throttled and best-effort.
package crawlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky-social/pds-sequencer/api/atproto"
	"github.com/bluesky-social/pds-sequencer/bgqueue"
	"github.com/bluesky-social/pds-sequencer/xrpc"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// NotifyThreshold is the minimum interval between notification bursts.
const NotifyThreshold = 20 * time.Minute

var crawlRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sequencer_crawl_requests_total",
	Help: "requestCrawl calls made to crawlers, by outcome",
}, []string{"crawler", "status"})

var notifyBursts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sequencer_crawl_notify_bursts_total",
	Help: "Number of times crawlers were notified of new events",
})

type Options struct {
	// Now is the clock used for throttling. Defaults to time.Now.
	Now func() time.Time

	// HTTPClient is used for requestCrawl calls. Defaults to the xrpc client's
	// default.
	HTTPClient *http.Client

	// per-request timeout
	RequestTimeout time.Duration

	Logger *slog.Logger
}

func DefaultOptions() *Options {
	return &Options{
		Now:            time.Now,
		RequestTimeout: 10 * time.Second,
	}
}

type Crawlers struct {
	hostname string
	crawlers []string
	queue    *bgqueue.Queue

	limiter *rate.Limiter
	now     func() time.Time

	client         *http.Client
	requestTimeout time.Duration

	log *slog.Logger
}

func NewCrawlers(hostname string, crawlers []string, queue *bgqueue.Queue, opts *Options) *Crawlers {
	if opts == nil {
		opts = DefaultOptions()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("system", "crawlers")
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hosts := make([]string, 0, len(crawlers))
	for _, c := range crawlers {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		hosts = append(hosts, normalizeHost(c))
	}

	return &Crawlers{
		hostname:       hostname,
		crawlers:       hosts,
		queue:          queue,
		limiter:        rate.NewLimiter(rate.Every(NotifyThreshold), 1),
		now:            now,
		client:         opts.HTTPClient,
		requestTimeout: timeout,
		log:            logger,
	}
}

// crawler entries may be bare hostnames, which are assumed to be https
func normalizeHost(h string) string {
	if strings.HasPrefix(h, "http://") || strings.HasPrefix(h, "https://") {
		return strings.TrimSuffix(h, "/")
	}
	return "https://" + strings.TrimSuffix(h, "/")
}

// Crawlers returns the configured crawler base URLs.
func (c *Crawlers) Crawlers() []string {
	return c.crawlers
}

// NotifyOfUpdate asks every crawler to crawl this host, at most once per
// NotifyThreshold. Requests are made on the background queue; it reports
// whether a burst was scheduled. Calls inside the quiet period are dropped,
// not deferred.
func (c *Crawlers) NotifyOfUpdate() bool {
	if len(c.crawlers) == 0 {
		return false
	}
	if !c.limiter.AllowN(c.now(), 1) {
		return false
	}
	notifyBursts.Inc()

	for _, host := range c.crawlers {
		host := host
		ok, err := c.queue.Add(func(ctx context.Context) {
			c.requestCrawl(ctx, host)
		})
		if err != nil || !ok {
			c.log.Warn("could not schedule crawl request", "crawler", host, "err", err)
		}
	}
	return true
}

func (c *Crawlers) requestCrawl(ctx context.Context, host string) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	xrpcc := &xrpc.Client{
		Client: c.client,
		Host:   host,
	}
	err := atproto.SyncRequestCrawl(ctx, xrpcc, &atproto.SyncRequestCrawl_Input{Hostname: c.hostname})
	if err != nil {
		crawlRequests.WithLabelValues(host, "error").Inc()
		c.log.Warn("failed to request crawl", "crawler", host, "hostname", c.hostname, "err", err)
		return
	}
	crawlRequests.WithLabelValues(host, "ok").Inc()
	c.log.Debug("requested crawl", "crawler", host, "hostname", c.hostname)
}
