package opencode

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/ringport/internal/logging"
)

// MergeHooks merges hook declarations into opencode.json. The incoming
// config may be wrapped in a top-level "hooks" key or be a bare
// event-name-keyed mapping. Merging is additive only: new entries are
// appended to each event's existing list and nothing is removed or
// deduplicated, so repeating an identical merge duplicates entries.
//
// Read or parse failures are logged and merging proceeds from an empty
// base. A write failure is logged and reported as false. The read-modify-
// write sequence is not guarded against concurrent writers.
func (a *Adapter) MergeHooks(hooks map[string]any, dryRun bool, installPath string) bool {
	base := installPath
	if base == "" {
		base = a.InstallPath()
	}
	configPath := filepath.Join(base, "opencode.json")

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
		list, _ := hooksMap[event].([]any)
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

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		logging.Error("failed to encode config",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return false
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		logging.Error("failed to write config",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return false
	}

	return true
}

// readConfig reads and parses opencode.json, tolerating //-prefixed comment
// lines (JSONC). Comments are stripped on read and never re-emitted, so a
// hand-commented file loses its comments after a merge. Any failure logs a
// warning and yields an empty base config.
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

	clean := stripLineComments(data)
	if len(bytes.TrimSpace(clean)) == 0 {
		return existing
	}

	if err := json.Unmarshal(clean, &existing); err != nil {
		logging.Warn("failed to parse config, starting from empty base",
			logging.Platform(string(a.Platform())),
			logging.Path(configPath),
			logging.Err(err),
		)
		return map[string]any{}
	}

	return existing
}

// stripLineComments removes lines whose trimmed content starts with //.
// Some OpenCode installs keep commented opencode.json files that a strict
// JSON parser would reject.
func stripLineComments(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}
