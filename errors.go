package mesosstream

import "errors"

var (
	// ErrPeerClosed reports the remote end finishing or abandoning a stream
	// that is expected to be unbounded.
	ErrPeerClosed = errors.New("peer closed stream")
	// ErrBadStatus reports a response status other than 200.
	ErrBadStatus = errors.New("unexpected response status")
	// ErrNotChunked reports a 200 response without chunked transfer encoding.
	ErrNotChunked = errors.New("response is not chunked")
	// ErrInvalidEvent reports a record whose payload is not valid JSON.
	ErrInvalidEvent = errors.New("event is not valid JSON")
	// ErrConnectTimeout reports an attempt that did not validate headers
	// within the configured connect timeout.
	ErrConnectTimeout = errors.New("connect timeout")

	// ErrAlreadyStarted is returned by Start on second and later calls.
	ErrAlreadyStarted = errors.New("client already started")
)
