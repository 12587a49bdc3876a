package leaderfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEmit(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("detector channel closed")
		}
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for detector emission")
		return ""
	}
}

func TestDetectEmitsInitialAndChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leader")
	if err := os.WriteFile(path, []byte("10.0.0.1:5050\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := New(path)
	ch, err := d.Detect(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if got := waitEmit(t, ch); got != "10.0.0.1:5050" {
		t.Fatalf("initial emission = %q", got)
	}

	if err := os.WriteFile(path, []byte("10.0.0.2:5050\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := waitEmit(t, ch); got != "10.0.0.2:5050" {
		t.Fatalf("emission after change = %q", got)
	}
}

func TestDetectMissingFileMeansNoLeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leader")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := New(path).Detect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := waitEmit(t, ch); got != "" {
		t.Fatalf("initial emission = %q, want empty", got)
	}

	if err := os.WriteFile(path, []byte("10.0.0.9:5050"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := waitEmit(t, ch); got != "10.0.0.9:5050" {
		t.Fatalf("emission after create = %q", got)
	}
}

func TestDetectChannelClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := New(filepath.Join(dir, "leader")).Detect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	waitEmit(t, ch) // initial ""

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel close, got emission")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
