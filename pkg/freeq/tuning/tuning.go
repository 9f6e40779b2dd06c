// Package tuning holds the process-wide tuning knobs for free queues. The
// configuration is read from the environment once, on first use, and is
// read-only afterwards.
package tuning

import (
	"sync"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-freeq/pkg/freeq/poison"
)

// Config is the tuning applied to newly created queues and to poisoning.
type Config struct {
	// Bypass makes new shared-flavor queues release on push instead of
	// deferring, until a ceiling setter disables it for a given queue.
	Bypass bool `env:"FREEQ_BYPASS"`

	// FillMax is the exclusive upper bound, in bytes, on the declared size
	// of a block for poisoning to apply.
	FillMax uint64 `env:"FREEQ_FILL_MAX"`

	// TotalMax is the initial count ceiling of new shared-flavor queues.
	// Negative means unbounded.
	TotalMax int `env:"FREEQ_TOTAL_MAX"`

	// MemMaxKB is the initial memory ceiling of new shared-flavor queues,
	// in KiB of tracked sizes. Negative means unbounded.
	MemMaxKB int64 `env:"FREEQ_MEM_MAX"`

	// Fill is the byte stamped into a tracked block when it is queued.
	Fill byte `env:"FREEQ_FILL"`

	// FillFreed is the byte stamped immediately before a block is released.
	FillFreed byte `env:"FREEQ_FILL_FREED"`
}

// MemMaxBytes returns the initial memory ceiling in bytes, or -1 when
// unbounded.
func (c *Config) MemMaxBytes() int64 {
	if c.MemMaxKB < 0 {
		return -1
	}
	return c.MemMaxKB * 1024
}

const (
	defaultFillMax  = 4096
	defaultTotalMax = 4096
	defaultMemMaxKB = 1024
)

var (
	mu      sync.Mutex
	current atomic.Pointer[Config]
)

// Load returns the process tuning, reading the environment on first call.
// The returned Config must be treated as read-only.
func Load() *Config {
	if c := current.Load(); c != nil {
		return c
	}
	mu.Lock()
	defer mu.Unlock()
	if c := current.Load(); c != nil {
		return c
	}
	c := parse()
	current.Store(c)
	return c
}

// Reload discards the cached tuning and re-reads the environment. It exists
// for tests; do not call it while queues are live.
func Reload() *Config {
	mu.Lock()
	defer mu.Unlock()
	c := parse()
	current.Store(c)
	return c
}

func defaults() *Config {
	return &Config{
		FillMax:   defaultFillMax,
		TotalMax:  defaultTotalMax,
		MemMaxKB:  defaultMemMaxKB,
		Fill:      poison.DefaultPending,
		FillFreed: poison.DefaultFreed,
	}
}

func parse() *Config {
	c := defaults()
	if err := env.Parse(c); err != nil {
		// A tuning knob must never break the process.
		logger().Warn("freeq: bad tuning environment, using defaults",
			zap.Error(errors.Wrap(err, "parse tuning")))
		return defaults()
	}
	return c
}
