// Package codex implements the platform adapter for OpenAI Codex CLI.
//
// Codex diverges further from Ring than OpenCode does: agents map to
// profiles, commands map to custom prompts, tools use snake_case verbs,
// and hooks live in config.toml rather than standalone files.
package codex

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
const EnvInstallPath = "CODEX_CONFIG_PATH"

// toolNames maps Ring's capitalized tool names to Codex's snake_case verbs.
// The trailing entries are aliases.
var toolNames = adapter.NewToolTable([]adapter.ToolPair{
	{Canonical: "Bash", Platform: "shell"},
	{Canonical: "Read", Platform: "read_file"},
	{Canonical: "Write", Platform: "write_file"},
	{Canonical: "Edit", Platform: "apply_patch"},
	{Canonical: "List", Platform: "list_dir"},
	{Canonical: "Glob", Platform: "find_files"},
	{Canonical: "Grep", Platform: "search_files"},
	{Canonical: "WebFetch", Platform: "web_fetch"},
	{Canonical: "Task", Platform: "spawn_agent"},
	{Canonical: "TodoWrite", Platform: "update_plan"},
	{Canonical: "TodoRead", Platform: "update_plan"},
	{Canonical: "MultiEdit", Platform: "apply_patch"},
	{Canonical: "NotebookEdit", Platform: "apply_patch"},
	{Canonical: "BrowseURL", Platform: "web_fetch"},
	{Canonical: "FetchURL", Platform: "web_fetch"},
})

// modelNames maps model shorthands to Codex model ids.
var modelNames = map[string]string{
	"opus":    "openai/gpt-5",
	"sonnet":  "openai/gpt-5-codex",
	"haiku":   "openai/gpt-5-mini",
	"inherit": "inherit",
}

var (
	agentDropFields   = []string{"version", "last_updated", "changelog", "output_schema"}
	commandDropFields = []string{"name", "version", "type", "tags"}
)

// Adapter implements adapter.Adapter for Codex CLI.
type Adapter struct {
	defaultInstallPath string

	installOnce sync.Once
	installPath string
}

// New creates a Codex adapter with the default install path (~/.codex).
func New() *Adapter {
	return &Adapter{defaultInstallPath: util.CodexConfigPath()}
}

// NewWithInstallPath creates a Codex adapter with a custom default install
// path. The environment override still applies on top.
func NewWithInstallPath(path string) *Adapter {
	if path == "" {
		return New()
	}
	return &Adapter{defaultInstallPath: util.ExpandHome(path)}
}

// Platform returns the platform identifier for Codex
func (a *Adapter) Platform() model.Platform {
	return model.Codex
}

// Name returns the human-readable platform name
func (a *Adapter) Name() string {
	return "Codex CLI"
}

// TransformSkill converts a Ring skill for Codex.
func (a *Adapter) TransformSkill(content string, _ map[string]any) (string, error) {
	fm, body := frontmatter.Extract([]byte(content))
	if len(fm) > 0 {
		fm = a.transformCommon(fm)
	}
	return frontmatter.Reassemble(fm, toolNames.RewriteReferences(body))
}

// TransformAgent converts a Ring agent for Codex.
func (a *Adapter) TransformAgent(content string, _ map[string]any) (string, error) {
	fm, body := frontmatter.Extract([]byte(content))
	if len(fm) > 0 {
		fm = a.transformAgentFrontmatter(fm)
	}
	return frontmatter.Reassemble(fm, toolNames.RewriteReferences(body))
}

// TransformCommand converts a Ring command into a Codex custom prompt.
func (a *Adapter) TransformCommand(content string, _ map[string]any) (string, error) {
	fm, body := frontmatter.Extract([]byte(content))
	if len(fm) > 0 {
		fm = a.transformCommandFrontmatter(fm)
	}
	return frontmatter.Reassemble(fm, toolNames.RewriteReferences(body))
}

// TransformHook rewrites hook path placeholders as plain text, longest
// pattern first.
func (a *Adapter) TransformHook(content string, _ map[string]any) (string, error) {
	result := strings.ReplaceAll(content, "${CLAUDE_PLUGIN_ROOT}/hooks/", "bash ~/.codex/hooks/")
	result = strings.ReplaceAll(result, "$CLAUDE_PLUGIN_ROOT/hooks/", "bash ~/.codex/hooks/")
	result = strings.ReplaceAll(result, "${CLAUDE_PLUGIN_ROOT}", "~/.codex")
	result = strings.ReplaceAll(result, "$CLAUDE_PLUGIN_ROOT", "~/.codex")
	return result, nil
}

// InstallPath resolves the Codex install directory once per adapter
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

// ComponentMapping reports Codex's directory layout. Commands install as
// custom prompts.
func (a *Adapter) ComponentMapping() map[model.Component]model.ComponentTarget {
	return map[model.Component]model.ComponentTarget{
		model.Agents:   {Dir: "agents", Extension: ".md"},
		model.Commands: {Dir: "prompts", Extension: ".md"},
		model.Skills:   {Dir: "skills", Extension: ".md"},
		model.Hooks:    {Dir: "hooks", Extension: ""},
	}
}

// Terminology maps Ring concepts to Codex vocabulary.
func (a *Adapter) Terminology() map[string]string {
	return map[string]string{
		"agent":   "profile",
		"skill":   "skill",
		"command": "prompt",
		"hook":    "hook",
	}
}

// IsNativeFormat reports false: Codex needs real vocabulary translation.
func (a *Adapter) IsNativeFormat() bool {
	return false
}

// RequiresHooksInSettings reports true: Codex hooks are declared in
// config.toml, not as standalone files.
func (a *Adapter) RequiresHooksInSettings() bool {
	return true
}

// TargetFilename returns the filename unchanged except for skill entry
// points: SKILL.md is not special to Codex, so it takes the singular
// component name.
func (a *Adapter) TargetFilename(source string, comp model.Component) string {
	if comp == model.Skills && source == "SKILL.md" {
		return "skill.md"
	}
	return source
}

// ConfigPath returns the Codex config file path.
func (a *Adapter) ConfigPath() string {
	return filepath.Join(a.InstallPath(), "config.toml")
}

func (a *Adapter) transformCommon(fm map[string]any) map[string]any {
	result := make(map[string]any, len(fm))
	for k, v := range fm {
		result[k] = v
	}

	if m, ok := result["model"]; ok {
		result["model"] = adapter.RewriteModel(m, modelNames, "openai")
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
