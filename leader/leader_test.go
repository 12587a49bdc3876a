package leader

import (
	"context"
	"sync"
	"testing"
	"time"
)

type stubDetector struct {
	ch chan string
}

func (d *stubDetector) Detect(ctx context.Context) (<-chan string, error) {
	return d.ch, nil
}

type stubTarget struct {
	mu      sync.Mutex
	masters []string
}

func (t *stubTarget) ChangeMaster(master string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.masters = append(t.masters, master)
}

func (t *stubTarget) seen() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.masters...)
}

func TestDrivePumpsEmissions(t *testing.T) {
	det := &stubDetector{ch: make(chan string, 3)}
	det.ch <- "10.0.0.1:5050"
	det.ch <- ""
	det.ch <- "10.0.0.2:5050"
	close(det.ch)

	tgt := &stubTarget{}
	if err := Drive(context.Background(), det, tgt); err != nil {
		t.Fatalf("Drive: %v", err)
	}
	want := []string{"10.0.0.1:5050", "", "10.0.0.2:5050"}
	got := tgt.seen()
	if len(got) != len(want) {
		t.Fatalf("saw %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("redirect %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDriveStopsOnContext(t *testing.T) {
	det := &stubDetector{ch: make(chan string)}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Drive(ctx, det, &stubTarget{}) }()

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Drive = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Drive did not return after cancel")
	}
}
