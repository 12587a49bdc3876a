// Package leader defines detectors that watch where the current cluster
// leader is and drive a streaming client's redirection. Detectors are
// optional collaborators: the client core never depends on them.
package leader

import "context"

// Detector watches a leadership source and emits the current leader
// endpoint ("host:port", or "" when no leader is known) each time it
// changes.
type Detector interface {
	// Detect starts watching. The returned channel emits the current value
	// and every subsequent change, and is closed when ctx ends or the
	// source fails permanently.
	Detect(ctx context.Context) (<-chan string, error)
}

// Target is the redirection surface of a streaming client.
type Target interface {
	ChangeMaster(master string)
}

// Drive pumps detector emissions into the target until ctx ends or the
// detector's channel closes. Successive emissions supersede each other the
// same way direct ChangeMaster calls do.
func Drive(ctx context.Context, det Detector, tgt Target) error {
	ch, err := det.Detect(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case master, ok := <-ch:
			if !ok {
				return nil
			}
			tgt.ChangeMaster(master)
		}
	}
}
