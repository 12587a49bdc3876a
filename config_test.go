package mesosstream

import (
	"testing"
	"time"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ConnectTimeout != 2*time.Second {
		t.Errorf("ConnectTimeout = %v", cfg.ConnectTimeout)
	}
	if cfg.RetryInterval != 2*time.Second {
		t.Errorf("RetryInterval = %v", cfg.RetryInterval)
	}
	if cfg.MaxFrameSize != 16<<20 {
		t.Errorf("MaxFrameSize = %d", cfg.MaxFrameSize)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("MESOS_STREAM_CONNECT_TIMEOUT", "500ms")
	t.Setenv("MESOS_STREAM_RETRY_INTERVAL", "3s")
	t.Setenv("MESOS_STREAM_MAX_FRAME_SIZE", "1024")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ConnectTimeout != 500*time.Millisecond {
		t.Errorf("ConnectTimeout = %v", cfg.ConnectTimeout)
	}
	if cfg.RetryInterval != 3*time.Second {
		t.Errorf("RetryInterval = %v", cfg.RetryInterval)
	}
	if cfg.MaxFrameSize != 1024 {
		t.Errorf("MaxFrameSize = %d", cfg.MaxFrameSize)
	}
	if got := len(cfg.Options()); got != 3 {
		t.Errorf("Options() returned %d options, want 3", got)
	}
}
