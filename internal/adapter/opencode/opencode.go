// Package opencode implements the platform adapter for OpenCode
// (OhMyOpenCode), a Claude Code-compatible agent platform.
//
// OpenCode uses the same markdown-plus-frontmatter artifact shape as Ring
// with minor differences: singular component directory names (agent/,
// command/, skill/), lowercase tool names, provider-qualified model ids,
// and hooks optionally merged into opencode.json.
package opencode

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauern/ringport/internal/adapter"
	"github.com/klauern/ringport/internal/frontmatter"
	"github.com/klauern/ringport/internal/logging"
	"github.com/klauern/ringport/internal/model"
	"github.com/klauern/ringport/internal/util"
)

// EnvInstallPath redirects the install path when set. Overrides resolving
// outside the user's home are rejected.
const EnvInstallPath = "OPENCODE_CONFIG_PATH"

// toolNames maps Ring's capitalized tool names to OpenCode's lowercase
// names. The trailing entries are aliases.
var toolNames = adapter.NewToolTable([]adapter.ToolPair{
	{Canonical: "Bash", Platform: "bash"},
	{Canonical: "Read", Platform: "read"},
	{Canonical: "Write", Platform: "write"},
	{Canonical: "Edit", Platform: "edit"},
	{Canonical: "List", Platform: "list"},
	{Canonical: "Glob", Platform: "glob"},
	{Canonical: "Grep", Platform: "grep"},
	{Canonical: "WebFetch", Platform: "webfetch"},
	{Canonical: "Task", Platform: "task"},
	{Canonical: "TodoWrite", Platform: "todowrite"},
	{Canonical: "TodoRead", Platform: "todoread"},
	{Canonical: "MultiEdit", Platform: "edit"},
	{Canonical: "NotebookEdit", Platform: "edit"},
	{Canonical: "BrowseURL", Platform: "webfetch"},
	{Canonical: "FetchURL", Platform: "webfetch"},
})

// modelNames maps model shorthands to OpenCode provider/model ids.
var modelNames = map[string]string{
	"opus":    "anthropic/claude-opus-4-5",
	"sonnet":  "anthropic/claude-sonnet-4-5",
	"haiku":   "anthropic/claude-haiku-4-5",
	"inherit": "inherit",
}

// Fields with no OpenCode equivalent, removed during transformation.
var (
	agentDropFields   = []string{"version", "last_updated", "changelog", "output_schema"}
	commandDropFields = []string{"name", "version", "type", "tags"}
)

// Adapter implements adapter.Adapter for OpenCode.
type Adapter struct {
	defaultInstallPath string

	installOnce sync.Once
	installPath string
}

// New creates an OpenCode adapter with the default install path
// (~/.config/opencode).
func New() *Adapter {
	return &Adapter{defaultInstallPath: util.OpenCodeConfigPath()}
}

// NewWithInstallPath creates an OpenCode adapter with a custom default
// install path, typically from the ringport config file. The environment
// override still applies on top.
func NewWithInstallPath(path string) *Adapter {
	if path == "" {
		return New()
	}
	return &Adapter{defaultInstallPath: util.ExpandHome(path)}
}

// Platform returns the platform identifier for OpenCode
func (a *Adapter) Platform() model.Platform {
	return model.OpenCode
}

// Name returns the human-readable platform name
func (a *Adapter) Name() string {
	return "OpenCode"
}

// TransformSkill converts a Ring skill for OpenCode. The format is
// near-native, so this is mostly passthrough with tool-name normalization.
func (a *Adapter) TransformSkill(content string, _ map[string]any) (string, error) {
	fm, body := frontmatter.Extract([]byte(content))
	if len(fm) > 0 {
		fm = a.transformCommon(fm)
	}
	return frontmatter.Reassemble(fm, toolNames.RewriteReferences(body))
}

// TransformAgent converts a Ring agent for OpenCode. OpenCode agents use
// mode (primary/subagent/all), provider-qualified model ids, and lowercase
// tool names.
func (a *Adapter) TransformAgent(content string, _ map[string]any) (string, error) {
	fm, body := frontmatter.Extract([]byte(content))
	if len(fm) > 0 {
		fm = a.transformAgentFrontmatter(fm)
	}
	return frontmatter.Reassemble(fm, toolNames.RewriteReferences(body))
}

// TransformCommand converts a Ring command for OpenCode.
func (a *Adapter) TransformCommand(content string, _ map[string]any) (string, error) {
	fm, body := frontmatter.Extract([]byte(content))
	if len(fm) > 0 {
		fm = a.transformCommandFrontmatter(fm)
	}
	return frontmatter.Reassemble(fm, toolNames.RewriteReferences(body))
}

// TransformHook rewrites hook path placeholders as plain text. The
// root-plus-hooks-subdirectory pattern must be replaced before the bare
// root pattern, which is a substring of it.
func (a *Adapter) TransformHook(content string, _ map[string]any) (string, error) {
	result := strings.ReplaceAll(content, "${CLAUDE_PLUGIN_ROOT}/hooks/", "bash ~/.config/opencode/hook/")
	result = strings.ReplaceAll(result, "$CLAUDE_PLUGIN_ROOT/hooks/", "bash ~/.config/opencode/hook/")
	result = strings.ReplaceAll(result, "${CLAUDE_PLUGIN_ROOT}", "~/.config/opencode")
	result = strings.ReplaceAll(result, "$CLAUDE_PLUGIN_ROOT", "~/.config/opencode")
	return result, nil
}

// InstallPath resolves the OpenCode install directory once per adapter
// instance.
func (a *Adapter) InstallPath() string {
	a.installOnce.Do(func() {
		a.installPath = a.resolveInstallPath()
	})
	return a.installPath
}

func (a *Adapter) resolveInstallPath() string {
	path := util.ExpandHome(a.defaultInstallPath)

	override := os.Getenv(EnvInstallPath)
	if override == "" {
		return path
	}
	if !util.WithinHome(override) {
		logging.Warn("install path override ignored: path must be under home",
			logging.Platform(string(a.Platform())),
			logging.Path(override),
		)
		return path
	}
	abs, err := filepath.Abs(util.ExpandHome(override))
	if err != nil {
		logging.Warn("install path override ignored: cannot resolve",
			logging.Platform(string(a.Platform())),
			logging.Path(override),
			logging.Err(err),
		)
		return path
	}
	return abs
}

// ComponentMapping reports OpenCode's singular directory layout.
func (a *Adapter) ComponentMapping() map[model.Component]model.ComponentTarget {
	return map[model.Component]model.ComponentTarget{
		model.Agents:   {Dir: "agent", Extension: ".md"},
		model.Commands: {Dir: "command", Extension: ".md"},
		model.Skills:   {Dir: "skill", Extension: ".md"},
		// Hook files keep their source extension.
		model.Hooks: {Dir: "hook", Extension: ""},
	}
}

// Terminology is the identity mapping: OpenCode shares Ring's vocabulary.
func (a *Adapter) Terminology() map[string]string {
	return map[string]string{
		"agent":   "agent",
		"skill":   "skill",
		"command": "command",
		"hook":    "hook",
	}
}

// IsNativeFormat reports true: OpenCode's document shape is close enough to
// Ring's that transformation is near-identity.
func (a *Adapter) IsNativeFormat() bool {
	return true
}

// RequiresHooksInSettings reports false: OpenCode supports standalone hook
// files, with opencode.json merging as an option.
func (a *Adapter) RequiresHooksInSettings() bool {
	return false
}

// TargetFilename returns the filename unchanged: OpenCode keeps Ring's
// artifact filenames.
func (a *Adapter) TargetFilename(source string, _ model.Component) string {
	return source
}

// ConfigPath returns the OpenCode config file path, preferring
// opencode.jsonc when it exists.
func (a *Adapter) ConfigPath() string {
	installPath := a.InstallPath()
	jsonc := filepath.Join(installPath, "opencode.jsonc")
	if _, err := os.Stat(jsonc); err == nil {
		return jsonc
	}
	return filepath.Join(installPath, "opencode.json")
}

// transformCommon applies the field rewrites shared by every artifact kind:
// model qualification and tool-name translation.
func (a *Adapter) transformCommon(fm map[string]any) map[string]any {
	result := make(map[string]any, len(fm))
	for k, v := range fm {
		result[k] = v
	}

	if m, ok := result["model"]; ok {
		result["model"] = adapter.RewriteModel(m, modelNames, "anthropic")
	}
	if tools, ok := result["tools"]; ok {
		result["tools"] = toolNames.RewriteValue(tools)
	}

	return result
}

func (a *Adapter) transformAgentFrontmatter(fm map[string]any) map[string]any {
	result := a.transformCommon(fm)

	if agentType, ok := result["type"]; ok {
		delete(result, "type")
		if _, hasMode := result["mode"]; !hasMode {
			switch agentType {
			case "subagent", "primary":
				result["mode"] = agentType
			}
		}
	}

	for _, field := range agentDropFields {
		delete(result, field)
	}

	return result
}

func (a *Adapter) transformCommandFrontmatter(fm map[string]any) map[string]any {
	result := a.transformCommon(fm)

	if _, hasHint := result["argument-hint"]; !hasHint {
		if args, ok := result["args"]; ok {
			result["argument-hint"] = args
			delete(result, "args")
		} else if args, ok := result["arguments"]; ok {
			result["argument-hint"] = args
			delete(result, "arguments")
		}
	}

	for _, field := range commandDropFields {
		delete(result, field)
	}

	return result
}
