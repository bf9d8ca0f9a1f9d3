package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/store"
)

// runtimeConfig holds the config-table values that parameterise a
// running Executor or Supervisor, resolved once at startup.
type runtimeConfig struct {
	PollInterval       time.Duration
	DefaultTimeoutSecs uint32
	BackoffBase        float64
	ReaperEnabled      bool
	ReaperAge          time.Duration
}

func loadRuntimeConfig(ctx context.Context, db *bun.DB) (runtimeConfig, error) {
	cfg := store.NewConfig(db)
	all, err := cfg.All(ctx)
	if err != nil {
		return runtimeConfig{}, err
	}

	pollMs, err := strconv.ParseUint(all[queuectl.ConfigPollIntervalMs], 10, 32)
	if err != nil {
		return runtimeConfig{}, queuectl.ErrInvalidInput
	}
	timeoutSecs, err := strconv.ParseUint(all[queuectl.ConfigDefaultTimeoutSecs], 10, 32)
	if err != nil {
		return runtimeConfig{}, queuectl.ErrInvalidInput
	}
	backoffBase, err := strconv.ParseFloat(all[queuectl.ConfigBackoffBase], 64)
	if err != nil {
		return runtimeConfig{}, queuectl.ErrInvalidInput
	}
	reaperEnabled, err := strconv.ParseBool(all[queuectl.ConfigReaperEnabled])
	if err != nil {
		return runtimeConfig{}, queuectl.ErrInvalidInput
	}
	reaperAgeSecs, err := strconv.ParseUint(all[queuectl.ConfigReaperAgeSecs], 10, 32)
	if err != nil {
		return runtimeConfig{}, queuectl.ErrInvalidInput
	}

	return runtimeConfig{
		PollInterval:       time.Duration(pollMs) * time.Millisecond,
		DefaultTimeoutSecs: uint32(timeoutSecs),
		BackoffBase:        backoffBase,
		ReaperEnabled:      reaperEnabled,
		ReaperAge:          time.Duration(reaperAgeSecs) * time.Second,
	}, nil
}
