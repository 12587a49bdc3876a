package mesosstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesoskit/mesos-stream-go/internal/logctx"
	"github.com/mesoskit/mesos-stream-go/recordio"
)

const (
	// DefaultConnectTimeout is the maximum time between opening a connection
	// and completing header validation before the attempt is abandoned.
	DefaultConnectTimeout = 2 * time.Second
	// DefaultRetryInterval is the fixed delay imposed before a new connection
	// attempt after any failure or redirection.
	DefaultRetryInterval = 2 * time.Second
)

// Option configures a Client.
type Option func(*newConfig)

type newConfig struct {
	logger         *slog.Logger
	dialer         Dialer
	connectTimeout time.Duration
	retryInterval  time.Duration
	maxFrame       int
	registerer     prometheus.Registerer
}

// WithLogger sets the slog logger used by the client. If not provided, logs
// are discarded.
func WithLogger(log *slog.Logger) Option {
	return func(c *newConfig) { c.logger = log }
}

// WithConnectTimeout overrides DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *newConfig) { c.connectTimeout = d }
}

// WithRetryInterval overrides DefaultRetryInterval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *newConfig) { c.retryInterval = d }
}

// WithMaxFrameSize caps the payload length of a single framed event. Frames
// announcing a larger length are a connection-fatal condition. Defaults to
// recordio.DefaultMaxRecordLen.
func WithMaxFrameSize(n int) Option {
	return func(c *newConfig) { c.maxFrame = n }
}

// WithDialer substitutes the transport dialer used for connection attempts.
// Defaults to a plain net.Dialer.
func WithDialer(d Dialer) Option {
	return func(c *newConfig) { c.dialer = d }
}

// WithRegisterer registers the client's Prometheus instruments with r. The
// instruments always update; without a registerer they are simply not
// exported anywhere.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *newConfig) { c.registerer = r }
}

// Client maintains one streaming connection to the current cluster leader
// and pumps decoded events into its Handler from a dedicated worker
// goroutine. The zero value is not usable; construct with New.
type Client struct {
	h   Handler
	log *slog.Logger
	met *clientMetrics

	dialer         Dialer
	connectTimeout time.Duration
	retryInterval  time.Duration
	maxFrame       int

	// mu guards the state shared between the controller and the worker.
	// The worker owns everything else: socket, parser and backoff state
	// never leave the event loop.
	mu       sync.Mutex
	desired  string
	active   string
	started  bool
	stopped  bool
	streamID string
	runErr   error

	wake chan struct{}
	done chan struct{}
}

// New returns an unstarted Client targeting master ("" for no target yet).
// The handler receives every decoded event; see Handler for the contract.
func New(master string, h Handler, opts ...Option) *Client {
	cfg := newConfig{
		connectTimeout: DefaultConnectTimeout,
		retryInterval:  DefaultRetryInterval,
		maxFrame:       recordio.DefaultMaxRecordLen,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var logHandler slog.Handler = slog.NewTextHandler(io.Discard, nil)
	if cfg.logger != nil {
		logHandler = cfg.logger.Handler()
	}
	if cfg.dialer == nil {
		cfg.dialer = &net.Dialer{}
	}

	return &Client{
		h:              h,
		log:            slog.New(logctx.Handler{Handler: logHandler}),
		met:            newClientMetrics(cfg.registerer),
		dialer:         cfg.dialer,
		connectTimeout: cfg.connectTimeout,
		retryInterval:  cfg.retryInterval,
		maxFrame:       cfg.maxFrame,
		desired:        master,
		wake:           make(chan struct{}, 1),
		done:           make(chan struct{}),
	}
}

// Start spawns the worker goroutine. A Client is single use: a second Start
// returns ErrAlreadyStarted, including after Stop.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	go c.run()
	return nil
}

// Stop requests shutdown. It is safe to call repeatedly and returns without
// waiting; use Done to observe worker exit.
func (c *Client) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.notify()
}

// ChangeMaster redirects the client to a new leader endpoint ("" for none).
// The redirect takes effect at the worker's next iteration, after any live
// connection is fully torn down; the last write before that iteration wins.
func (c *Client) ChangeMaster(master string) {
	c.mu.Lock()
	c.desired = master
	c.mu.Unlock()
	c.notify()
}

// Master returns the endpoint the worker is currently acting on.
func (c *Client) Master() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StreamID returns the session stream id of the live connection, or "" when
// no connection has validated headers.
func (c *Client) StreamID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streamID
}

// Done is closed when the worker goroutine has exited, whether by Stop or by
// an unrecoverable fault.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the unrecoverable fault that terminated the worker, or nil.
// Expected failures (peer closed, bad responses, timeouts) are absorbed by
// reconnection and never reported here.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runErr
}

// notify pokes the worker out of its wait. The channel has capacity one and
// the send never blocks: notifications before a drain coalesce, since the
// worker re-evaluates full state after every wake.
func (c *Client) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Client) run() {
	defer close(c.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("event loop panic: %v", r)
			}
		}()
		return c.loop(ctx)
	}()

	c.mu.Lock()
	c.stopped = true
	c.runErr = err
	c.mu.Unlock()

	if err != nil {
		c.log.Error("event loop terminated", slog.String("err", err.Error()))
	}
}

// loop is the supervisor: it owns the live connection and applies the
// Disconnected/Connecting/Connected state machine. A nil return is a clean
// stop; any error is an unrecoverable fault.
func (c *Client) loop(ctx context.Context) error {
	var (
		cur          *conn
		connected    bool
		attemptStart time.Time
		nextAttempt  time.Time
	)

	// Every transition into Disconnected via failure, timeout or redirect:
	// drop the connection, clear the stream id, arm the retry interval.
	teardown := func() {
		if cur == nil {
			return
		}
		cur.close()
		cur = nil
		connected = false
		c.met.connected.Set(0)
		c.setStreamID("")
		nextAttempt = time.Now().Add(c.retryInterval)
	}
	defer func() {
		if cur != nil {
			cur.close()
			c.met.connected.Set(0)
			c.setStreamID("")
		}
	}()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		c.mu.Lock()
		stopped := c.stopped
		desired := c.desired
		active := c.active
		c.mu.Unlock()

		if stopped {
			return nil
		}

		if desired != active {
			if cur != nil {
				c.log.Info("leader changed",
					slog.String("old", active),
					slog.String("new", desired))
				teardown()
			}
			c.mu.Lock()
			c.active = desired
			c.mu.Unlock()
			active = desired
		}

		if cur == nil && active != "" && !time.Now().Before(nextAttempt) {
			req, err := c.h.GenRequest(ctx)
			if err != nil {
				return fmt.Errorf("gen request: %w", err)
			}
			cur = newConn(ctx, active, c.dialer, req, c.maxFrame)
			connected = false
			attemptStart = time.Now()
			c.met.attempts.Inc()
			c.log.DebugContext(cur.ctx, "connecting")
		}

		// Bound the wait by the earliest pending deadline so a due reconnect
		// or connect timeout is never missed by blocking indefinitely.
		var deadline time.Time
		switch {
		case cur == nil && active != "":
			deadline = nextAttempt
		case cur != nil && !connected:
			deadline = attemptStart.Add(c.connectTimeout)
		}

		var timerCh <-chan time.Time
		if !deadline.IsZero() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(max(time.Until(deadline), 0))
			timerCh = timer.C
		}

		var msgCh chan connMsg
		if cur != nil {
			msgCh = cur.msgs
		}

		select {
		case <-c.wake:
			// Pure interrupt; state is re-evaluated at the loop head.
		case <-timerCh:
		case m := <-msgCh:
			switch m.kind {
			case msgConnected:
				connected = true
				c.met.connected.Set(1)
				c.setStreamID(m.streamID)
				c.log.InfoContext(cur.ctx, "connected",
					slog.String("stream_id", m.streamID))
			case msgEvent:
				c.met.events.Inc()
				c.met.eventBytes.Add(float64(len(m.event)))
				if err := c.h.OnEvent(cur.ctx, m.event); err != nil {
					return fmt.Errorf("handler rejected event: %w", err)
				}
			case msgFailed:
				c.met.failures.Inc()
				c.log.WarnContext(cur.ctx, "connection failed",
					slog.String("err", m.err.Error()))
				teardown()
			}
		}

		// Checked on every iteration, not only on timer fire: a failed dial
		// does not surface promptly on every platform.
		if cur != nil && !connected && time.Since(attemptStart) >= c.connectTimeout {
			c.met.failures.Inc()
			c.log.WarnContext(cur.ctx, "connection failed",
				slog.String("err", ErrConnectTimeout.Error()))
			teardown()
		}
	}
}

// setStreamID updates the id in client state and mirrors it to the handler.
// Teardown clears it before any new connection can reach the connected
// state.
func (c *Client) setStreamID(id string) {
	c.mu.Lock()
	c.streamID = id
	c.mu.Unlock()
	c.h.SetStreamID(id)
}
