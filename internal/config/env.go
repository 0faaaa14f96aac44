package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides config fields from TASKLOOP_* variables. Unset or empty
// variables leave the field alone.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("TASKLOOP_ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v, ok := get("TASKLOOP_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := get("TASKLOOP_LOG_FORMAT"); ok {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v, ok := get("TASKLOOP_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := get("TASKLOOP_SEED"); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TASKLOOP_SEED: %w", err)
		}
		cfg.Store.Seed = seed
	}
	if v, ok := get("TASKLOOP_API_URL"); ok {
		cfg.Client.BaseURL = strings.TrimRight(v, "/")
	}
	return nil
}
