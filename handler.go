package mesosstream

import (
	"context"
	"encoding/json"
)

// Handler is supplied by the caller and owns both ends of the exchange: the
// outbound request bytes and the interpretation of decoded events. All
// methods are invoked from the client's worker goroutine, never concurrently
// with each other.
type Handler interface {
	// GenRequest returns the raw HTTP request bytes for a fresh connection
	// attempt. It is called once per attempt and may depend on the stream id
	// the handler last observed (e.g. to resubscribe within a session). The
	// context is canceled when the worker exits.
	GenRequest(ctx context.Context) ([]byte, error)

	// OnEvent receives one decoded event. Events arrive strictly in stream
	// order. A non-nil error is an unrecoverable fault: it stops the worker
	// and surfaces through Client.Err.
	OnEvent(ctx context.Context, event json.RawMessage) error

	// SetStreamID mirrors every change to the session stream id: the value
	// captured when a connection reaches the connected state, and "" on
	// every teardown.
	SetStreamID(id string)
}
