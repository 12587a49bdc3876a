// Package mesosstream maintains one long-lived streaming HTTP connection to
// the current leader of a Mesos-style cluster, sends a caller-defined
// subscribe request, and delivers the unbounded sequence of framed JSON
// events from the chunked response body to a caller-supplied handler, in
// order. It is the transport core under scheduler- and executor-style
// clients of the v1 streaming HTTP API.
//
// Responsibilities
//   - One connection attempt at a time; fresh connection state per attempt
//   - Response validation (status 200, chunked transfer encoding) and
//     Mesos-Stream-Id capture
//   - Record framing (recordio) decode with strict arrival-order delivery
//   - Reconnect with a fixed retry interval and a connect timeout
//   - Cooperative redirection to a new leader and cooperative shutdown
//   - Fault propagation from the worker goroutine to the controller
//
// Construction
//
//	c := mesosstream.New("10.0.0.1:5050", handler,
//	    mesosstream.WithLogger(log),
//	    mesosstream.WithConnectTimeout(2*time.Second),
//	)
//	if err := c.Start(); err != nil { ... }
//	defer c.Stop()
//
// The handler produces the raw outbound request bytes for each attempt and
// receives every decoded event. Expected failures (peer closed, bad status,
// malformed frames, timeouts) are absorbed by reconnection and never surface
// to the controller; only unrecoverable faults (a handler error or a panic in
// the event loop) stop the worker, and those are reported through Done and
// Err rather than being lost with the goroutine.
//
// # Ordering
//
// Events reach the handler strictly in byte-stream extraction order, on the
// worker goroutine. There is no buffering, replay, or deduplication across
// reconnects: each reconnect starts a fresh, gap-tolerant stream under a
// fresh stream id.
package mesosstream
