package codex

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/klauern/ringport/internal/logging"
)

// MergeHooks merges hook declarations into config.toml. The incoming config
// may be wrapped in a top-level "hooks" key or be a bare event-name-keyed
// mapping. Merging is additive only and never deduplicates. Comments are
// legal TOML, so unlike the JSONC path no stripping pass is needed on read,
// but re-encoding still discards them.
//
// Read or parse failures are logged and merging proceeds from an empty
// base. A write failure is logged and reported as false.
func (a *Adapter) MergeHooks(hooks map[string]any, dryRun bool, installPath string) bool {
	base := installPath
	if base == "" {
		base = a.InstallPath()
	}
	configPath := filepath.Join(base, "config.toml")

	existing := a.readConfig(configPath)

	hooksMap, ok := existing["hooks"].(map[string]any)
	if !ok {
		hooksMap = map[string]any{}
		existing["hooks"] = hooksMap
	}

	incoming := hooks
	if wrapped, ok := hooks["hooks"].(map[string]any); ok {
		incoming = wrapped
	}

	for event, entries := range incoming {
		list := toEntryList(hooksMap[event])
		if entryList, ok := entries.([]any); ok {
			list = append(list, entryList...)
		} else {
			list = append(list, entries)
		}
		hooksMap[event] = list
		logging.Debug("queued hook entries for merge",
			logging.Platform(string(a.Platform())),
			logging.Event(event),
		)
	}

	if dryRun {
		logging.Info("dry run: would merge hooks into config",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
		)
		return true
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		logging.Error("failed to create config directory",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return false
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(existing); err != nil {
		logging.Error("failed to encode config",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return false
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		logging.Error("failed to write config",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return false
	}

	return true
}

// readConfig decodes config.toml. Any failure logs a warning and yields an
// empty base config.
func (a *Adapter) readConfig(configPath string) map[string]any {
	existing := map[string]any{}

	// #nosec G304 - configPath derives from the resolved install path
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("failed to read config, starting from empty base",
				logging.Platform(string(a.Platform())),
				logging.Path(configPath),
				logging.Err(err),
			)
		}
		return existing
	}

	if err := toml.Unmarshal(data, &existing); err != nil {
		logging.Warn("failed to parse config, starting from empty base",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return map[string]any{}
	}

	return existing
}

// toEntryList normalizes an existing event value to an appendable list.
// The TOML decoder produces []map[string]any for arrays of tables.
func toEntryList(v any) []any {
	switch list := v.(type) {
	case []any:
		return list
	case []map[string]any:
		entries := make([]any, 0, len(list))
		for _, entry := range list {
			entries = append(entries, entry)
		}
		return entries
	default:
		return nil
	}
}
