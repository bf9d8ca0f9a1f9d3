package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl"
)

// numericKeys lists config keys whose values must parse as
// non-negative integers (backoff_base is the one exception, parsed as
// a float).
var numericKeys = map[string]bool{
	queuectl.ConfigMaxRetries:         true,
	queuectl.ConfigPollIntervalMs:     true,
	queuectl.ConfigDefaultTimeoutSecs: true,
	queuectl.ConfigReaperAgeSecs:      true,
}

var floatKeys = map[string]bool{
	queuectl.ConfigBackoffBase: true,
}

var boolKeys = map[string]bool{
	queuectl.ConfigReaperEnabled: true,
}

// ConfigStore implements queuectl.Config against the config table.
type ConfigStore struct {
	db *bun.DB
}

// NewConfig creates a ConfigStore.
func NewConfig(db *bun.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// Get returns the string value for key. On first read of a recognised
// key with no stored row, the default is materialized into the table
// and returned. Unrecognised keys with no stored row return nil.
func (c *ConfigStore) Get(ctx context.Context, key string) (*string, error) {
	var m configModel
	err := c.db.NewSelect().Model(&m).Where("key = ?", key).Scan(ctx)
	if err == nil {
		return &m.Value, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr("config_get", err)
	}
	def, ok := queuectl.DefaultConfig[key]
	if !ok {
		return nil, nil
	}
	if err := c.Set(ctx, key, def); err != nil {
		return nil, err
	}
	return &def, nil
}

// Set stores value for key, validating recognised numeric keys.
func (c *ConfigStore) Set(ctx context.Context, key, value string) error {
	if numericKeys[key] {
		if _, err := strconv.ParseUint(value, 10, 32); err != nil {
			return queuectl.ErrInvalidInput
		}
	}
	if floatKeys[key] {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return queuectl.ErrInvalidInput
		}
	}
	if boolKeys[key] {
		if _, err := strconv.ParseBool(value); err != nil {
			return queuectl.ErrInvalidInput
		}
	}
	model := &configModel{Key: key, Value: value}
	_, err := c.db.NewInsert().
		Model(model).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return wrapErr("config_set", err)
	}
	return nil
}

// All returns every key/value pair currently stored, materializing
// any recognised default key that has not yet been read or set.
func (c *ConfigStore) All(ctx context.Context) (map[string]string, error) {
	for key, def := range queuectl.DefaultConfig {
		exists, err := c.db.NewSelect().Model((*configModel)(nil)).Where("key = ?", key).Count(ctx)
		if err != nil {
			return nil, wrapErr("config_all", err)
		}
		if exists == 0 {
			if err := c.Set(ctx, key, def); err != nil {
				return nil, err
			}
		}
	}
	var models []*configModel
	if err := c.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return nil, wrapErr("config_all", err)
	}
	out := make(map[string]string, len(models))
	for _, m := range models {
		out[m.Key] = m.Value
	}
	return out, nil
}
