package mesosstream

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config carries the tunable knobs of a Client. Defaults can be loaded from
// the environment via ConfigFromEnv; zero values fall back to the package
// defaults either way.
type Config struct {
	// ConnectTimeout bounds the time from opening a connection to validated
	// headers. ENV: MESOS_STREAM_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"MESOS_STREAM_CONNECT_TIMEOUT,default=2s"`
	// RetryInterval is the fixed delay before reconnecting after a failure
	// or redirect. ENV: MESOS_STREAM_RETRY_INTERVAL
	RetryInterval time.Duration `env:"MESOS_STREAM_RETRY_INTERVAL,default=2s"`
	// MaxFrameSize caps the payload length of one framed event.
	// ENV: MESOS_STREAM_MAX_FRAME_SIZE
	MaxFrameSize int `env:"MESOS_STREAM_MAX_FRAME_SIZE,default=16777216"`
}

// ConfigFromEnv populates a Config from the environment, applying the struct
// tag defaults for unset variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the Config into construction options for New.
func (cfg Config) Options() []Option {
	var opts []Option
	if cfg.ConnectTimeout > 0 {
		opts = append(opts, WithConnectTimeout(cfg.ConnectTimeout))
	}
	if cfg.RetryInterval > 0 {
		opts = append(opts, WithRetryInterval(cfg.RetryInterval))
	}
	if cfg.MaxFrameSize > 0 {
		opts = append(opts, WithMaxFrameSize(cfg.MaxFrameSize))
	}
	return opts
}
