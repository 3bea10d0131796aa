package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bluesky-social/pds-sequencer/bgqueue"
	"github.com/bluesky-social/pds-sequencer/sequencer"
	"github.com/bluesky-social/pds-sequencer/xrpc"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const serverListenerBootTimeout = 5 * time.Second

type ServiceConfig struct {
	// bearer token for /admin/ routes
	AdminToken string

	Outbox *sequencer.OutboxOptions
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Outbox: sequencer.DefaultOutboxOptions(),
	}
}

type Service struct {
	db     *gorm.DB
	seq    *sequencer.Sequencer
	outbox *sequencer.Outbox
	queue  *bgqueue.Queue
	config ServiceConfig
	logger *slog.Logger

	echo *echo.Echo

	metricsLk     sync.Mutex
	metricsServer *http.Server

	consumersLk    sync.Mutex
	consumers      map[uint64]*SocketConsumer
	nextConsumerID uint64
}

func NewService(db *gorm.DB, seq *sequencer.Sequencer, queue *bgqueue.Queue, config *ServiceConfig, logger *slog.Logger) *Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	svc := &Service{
		db:        db,
		seq:       seq,
		outbox:    sequencer.NewOutbox(seq, config.Outbox),
		queue:     queue,
		config:    *config,
		logger:    logger.With("system", "sequencer-service"),
		consumers: make(map[uint64]*SocketConsumer),
	}
	svc.echo = svc.newEcho()
	return svc
}

func (svc *Service) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(slogecho.New(svc.logger))
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddleware("sequencer"))
	e.Use(otelecho.Middleware("sequencer"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.HTTPErrorHandler = svc.errorHandler

	e.GET("/", svc.HandleHomeMessage)
	e.GET("/_health", svc.HandleHealthCheck)
	e.GET("/xrpc/_health", svc.HandleHealthCheck)
	e.GET("/xrpc/com.atproto.sync.subscribeRepos", svc.EventsHandler)
	e.GET("/xrpc/_sequencer.curr", svc.HandleCurr)

	admin := e.Group("/admin", svc.checkAdminAuth)
	admin.POST("/sequence/handle", svc.handleAdminSequenceHandle)
	admin.POST("/sequence/identity", svc.handleAdminSequenceIdentity)
	admin.POST("/sequence/account", svc.handleAdminSequenceAccount)
	admin.POST("/repo/tombstone", svc.handleAdminTombstone)
	admin.POST("/sequence/invalidate", svc.handleAdminInvalidateSeqs)
	admin.GET("/consumers/list", svc.handleAdminListConsumers)

	return e
}

func (svc *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.echo.ServeHTTP(w, r)
}

func (svc *Service) errorHandler(err error, c echo.Context) {
	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		if err2 := c.JSON(herr.Code, xrpc.XRPCError{ErrStr: http.StatusText(herr.Code), Message: errMessage(herr)}); err2 != nil {
			svc.logger.Error("failed to write http error", "err", err2)
		}
		return
	}

	svc.logger.Warn("handler error", "path", c.Path(), "err", err)
	// the firehose has already been upgraded to a websocket
	if c.Path() == "/xrpc/com.atproto.sync.subscribeRepos" || c.Response().Committed {
		return
	}
	if err2 := c.JSON(http.StatusInternalServerError, xrpc.XRPCError{ErrStr: "InternalServerError", Message: "internal server error"}); err2 != nil {
		svc.logger.Error("failed to write http error", "err", err2)
	}
}

func errMessage(herr *echo.HTTPError) string {
	if s, ok := herr.Message.(string); ok {
		return s
	}
	return http.StatusText(herr.Code)
}

const authorizationBearerPrefix = "Bearer "

func (svc *Service) checkAdminAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authheader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authheader, authorizationBearerPrefix) {
			return echo.ErrForbidden
		}
		token := authheader[len(authorizationBearerPrefix):]
		if svc.config.AdminToken == "" || svc.config.AdminToken != token {
			return echo.ErrForbidden
		}
		return next(c)
	}
}

func (svc *Service) Start(addr string) error {
	var lc net.ListenConfig
	ctx, cancel := context.WithTimeout(context.Background(), serverListenerBootTimeout)
	defer cancel()

	li, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return svc.StartWithListener(li)
}

func (svc *Service) StartWithListener(listen net.Listener) error {
	svc.echo.Listener = listen
	if err := svc.echo.StartServer(svc.echo.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *Service) StartMetrics(listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listen, Handler: mux}

	svc.metricsLk.Lock()
	svc.metricsServer = srv
	svc.metricsLk.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the sequencer first, which ends every firehose
// subscription, then both HTTP servers, then drains pending crawl requests.
func (svc *Service) Shutdown(ctx context.Context) error {
	svc.seq.Destroy()

	errs := errgroup.Group{}
	errs.Go(func() error {
		svc.echo.Server.SetKeepAlivesEnabled(false)
		if err := svc.echo.Shutdown(ctx); err != nil {
			svc.logger.Error("error shutting down API server", "err", err)
			return err
		}
		return nil
	})
	errs.Go(func() error {
		svc.metricsLk.Lock()
		srv := svc.metricsServer
		svc.metricsLk.Unlock()
		if srv == nil {
			return nil
		}
		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			svc.logger.Error("error shutting down metrics server", "err", err)
			return err
		}
		return nil
	})
	httpErr := errs.Wait()

	if err := svc.queue.Shutdown(ctx); err != nil {
		return errors.Join(httpErr, err)
	}
	return httpErr
}

type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"msg,omitempty"`
}

func (svc *Service) HandleHealthCheck(c echo.Context) error {
	if err := svc.db.WithContext(c.Request().Context()).Exec("SELECT 1").Error; err != nil {
		svc.logger.Error("healthcheck can't connect to database", "err", err)
		return c.JSON(http.StatusInternalServerError, HealthStatus{Status: "error", Message: "can't connect to database"})
	}
	return c.JSON(http.StatusOK, HealthStatus{Status: "ok"})
}

type CurrOutput struct {
	Seq      int64 `json:"seq"`
	LastSeen int64 `json:"lastSeen"`
}

// GET /xrpc/_sequencer.curr
func (svc *Service) HandleCurr(c echo.Context) error {
	curr, err := svc.seq.Curr(c.Request().Context())
	if err != nil {
		svc.logger.Error("failed to read current seq", "err", err)
		return c.JSON(http.StatusInternalServerError, xrpc.XRPCError{ErrStr: "DatabaseError", Message: "failed to read current seq"})
	}
	return c.JSON(http.StatusOK, CurrOutput{Seq: curr, LastSeen: svc.seq.LastSeen()})
}

func (svc *Service) HandleHomeMessage(c echo.Context) error {
	return c.String(http.StatusOK, homeMessage)
}

var homeMessage = `This is an atproto repo event sequencer.

The firehose is at /xrpc/com.atproto.sync.subscribeRepos
`
