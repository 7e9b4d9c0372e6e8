package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mydayapp/myday/internal/flagx"
	"github.com/mydayapp/myday/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds.
type jsonConfig struct {
	DatabasePath *string         `json:"database_path"`
	CouchURL     *string         `json:"couch_url"`
	EntriesDB    *string         `json:"entries_db"`
	UsersDB      *string         `json:"users_db"`
	IdentityURL  *string         `json:"identity_url"`
	SyncTimeout  *timex.Duration `json:"sync_timeout"`
	LogLevel     *string         `json:"log_level"`
	LogFile      *string         `json:"log_file"`
}

// parseJSON overlays Config with values from the JSON file named by the
// -c/-config flag. When no flag is given, nothing is loaded.
func parseJSON(cfg *Config) error {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.CouchURL != nil {
		cfg.CouchURL = *jc.CouchURL
	}
	if jc.EntriesDB != nil {
		cfg.EntriesDB = *jc.EntriesDB
	}
	if jc.UsersDB != nil {
		cfg.UsersDB = *jc.UsersDB
	}
	if jc.IdentityURL != nil {
		cfg.IdentityURL = *jc.IdentityURL
	}
	if jc.SyncTimeout != nil {
		cfg.SyncTimeout = jc.SyncTimeout.Std()
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	return nil
}
