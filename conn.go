package mesosstream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mesoskit/mesos-stream-go/internal/logctx"
	"github.com/mesoskit/mesos-stream-go/recordio"
)

// streamIDHeader is the session-affinity header assigned by the server per
// streaming session. Go matches header names case-insensitively; the
// canonical form is used for clarity.
const streamIDHeader = "Mesos-Stream-Id"

// Dialer opens the transport connection for one attempt. *net.Dialer
// satisfies it; tests substitute recording or blocking dialers.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

type connMsgKind int

const (
	msgConnected connMsgKind = iota
	msgEvent
	msgFailed
)

// connMsg is one milestone from a connection attempt's I/O goroutine to the
// supervisor: headers validated, one decoded event, or a fatal condition.
type connMsg struct {
	kind     connMsgKind
	streamID string
	event    json.RawMessage
	err      error
}

// conn owns exactly one socket and the protocol state for a single
// connection attempt. It is stateless across reconnects: the supervisor
// creates a fresh conn per attempt and never reuses one. A conn reports
// failures to its owner and never reconnects itself.
type conn struct {
	id   string
	addr string

	ctx    context.Context
	cancel context.CancelFunc

	msgs chan connMsg
	done chan struct{}
}

func newConn(parent context.Context, addr string, d Dialer, req []byte, maxFrame int) *conn {
	ctx, cancel := context.WithCancel(parent)
	c := &conn{
		id:     uuid.NewString(),
		addr:   addr,
		cancel: cancel,
		msgs:   make(chan connMsg),
		done:   make(chan struct{}),
	}
	c.ctx = logctx.WithConnData(ctx, &logctx.ConnData{Endpoint: addr, AttemptID: c.id})
	go c.run(d, req, maxFrame)
	return c
}

// close tears the attempt down and waits for the I/O goroutine to release
// the socket. Safe to call more than once.
func (c *conn) close() {
	c.cancel()
	<-c.done
}

// send delivers a milestone to the supervisor, giving up if the attempt is
// torn down before the supervisor reads it.
func (c *conn) send(m connMsg) bool {
	select {
	case c.msgs <- m:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *conn) fail(err error) {
	c.send(connMsg{kind: msgFailed, err: err})
}

func (c *conn) run(d Dialer, req []byte, maxFrame int) {
	defer close(c.done)

	nc, err := d.DialContext(c.ctx, "tcp", c.addr)
	if err != nil {
		c.fail(fmt.Errorf("dial %s: %w", c.addr, err))
		return
	}
	defer nc.Close()

	// Unblock any in-flight read or write when the supervisor tears the
	// attempt down.
	go func() {
		<-c.ctx.Done()
		nc.Close()
	}()

	if _, err := nc.Write(req); err != nil {
		c.fail(fmt.Errorf("write request to %s: %w", c.addr, err))
		return
	}

	resp, err := http.ReadResponse(bufio.NewReader(nc), nil)
	if err != nil {
		c.fail(fmt.Errorf("read response from %s: %w", c.addr, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.fail(fmt.Errorf("%w: %s", ErrBadStatus, resp.Status))
		return
	}
	if !isChunked(resp.TransferEncoding) {
		c.fail(ErrNotChunked)
		return
	}

	if !c.send(connMsg{kind: msgConnected, streamID: resp.Header.Get(streamIDHeader)}) {
		return
	}

	dec := recordio.NewDecoder(maxFrame)
	buf := make([]byte, 32<<10)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
			for {
				rec, derr := dec.Next()
				if derr != nil {
					c.fail(fmt.Errorf("decode record: %w", derr))
					return
				}
				if rec == nil {
					break
				}
				if !json.Valid(rec) {
					c.fail(fmt.Errorf("%w: %.64q", ErrInvalidEvent, rec))
					return
				}
				if !c.send(connMsg{kind: msgEvent, event: rec}) {
					return
				}
			}
		}
		if err != nil {
			// The stream is logically unbounded; the server finishing the
			// message is as fatal as a dropped transport.
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = ErrPeerClosed
			}
			c.fail(err)
			return
		}
	}
}

func isChunked(transferEncoding []string) bool {
	for _, te := range transferEncoding {
		if strings.EqualFold(te, "chunked") {
			return true
		}
	}
	return false
}
