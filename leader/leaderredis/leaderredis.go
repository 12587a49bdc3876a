// Package leaderredis detects the cluster leader from a Redis key holding a
// "host:port" value, polled at a configurable interval. A missing key means
// no leader is known.
package leaderredis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

// Config for a Redis-backed leader Detector. Defaults can be loaded via
// envdecode.
type Config struct {
	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	// Key holding the leader endpoint. ENV: LEADER_KEY
	Key string `env:"LEADER_KEY,default=mesos:leader"`
	// PollInterval between reads. ENV: LEADER_POLL_INTERVAL
	PollInterval time.Duration `env:"LEADER_POLL_INTERVAL,default=1s"`
}

type Detector struct {
	client   *redis.Client
	key      string
	interval time.Duration
}

func New(cfg Config) (*Detector, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	if cfg.Key == "" {
		return nil, errors.New("leader key is required")
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Detector{client: cl, key: cfg.Key, interval: interval}, nil
}

// NewFromEnv builds a Detector using envdecode to populate Config.
func NewFromEnv() (*Detector, error) {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	return New(cfg)
}

// Close closes the Redis client.
func (d *Detector) Close() error { return d.client.Close() }

func (d *Detector) Detect(ctx context.Context) (<-chan string, error) {
	// Fail fast on an unreadable source before starting the poll loop.
	first, err := d.get(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)

		last := first
		select {
		case out <- first:
		case <-ctx.Done():
			return
		}

		tick := time.NewTicker(d.interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
			cur, err := d.get(ctx)
			if err != nil {
				// Transient Redis trouble: keep the last known value and
				// retry on the next tick.
				continue
			}
			if cur == last {
				continue
			}
			last = cur
			select {
			case out <- cur:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (d *Detector) get(ctx context.Context) (string, error) {
	v, err := d.client.Get(ctx, d.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}
