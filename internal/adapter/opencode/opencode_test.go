package opencode

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauern/ringport/internal/frontmatter"
	"github.com/klauern/ringport/internal/model"
)

func extractResult(t *testing.T, content string) (map[string]any, string) {
	t.Helper()
	return frontmatter.Extract([]byte(content))
}

func TestTransformAgent_ToolsMapping(t *testing.T) {
	doc := `---
name: reviewer
tools:
  Bash: true
  Read: false
---
Agent body`

	a := New()
	got, err := a.TransformAgent(doc, nil)
	if err != nil {
		t.Fatalf("TransformAgent() error = %v", err)
	}

	fm, _ := extractResult(t, got)
	want := map[string]any{"bash": true, "read": false}
	if !reflect.DeepEqual(fm["tools"], want) {
		t.Errorf("tools = %#v, want %#v", fm["tools"], want)
	}
}

func TestTransformAgent_ToolsList(t *testing.T) {
	tests := map[string]struct {
		tools string
		want  []any
	}{
		"case-insensitive dedup keeps first occurrence": {
			tools: "[Bash, bash, Edit]",
			want:  []any{"bash", "edit"},
		},
		"aliases collapse": {
			tools: "[Edit, MultiEdit, NotebookEdit]",
			want:  []any{"edit"},
		},
		"unknown tools lowercase": {
			tools: "[MySpecialTool]",
			want:  []any{"myspecialtool"},
		},
	}

	a := New()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := "---\nname: x\ntools: " + tt.tools + "\n---\nbody"
			got, err := a.TransformAgent(doc, nil)
			if err != nil {
				t.Fatalf("TransformAgent() error = %v", err)
			}
			fm, _ := extractResult(t, got)
			if !reflect.DeepEqual(fm["tools"], tt.want) {
				t.Errorf("tools = %#v, want %#v", fm["tools"], tt.want)
			}
		})
	}
}

func TestTransformAgent_ModelMapping(t *testing.T) {
	tests := map[string]struct {
		model string
		want  string
	}{
		"shorthand expands":             {model: "sonnet", want: "anthropic/claude-sonnet-4-5"},
		"opus shorthand":                {model: "opus", want: "anthropic/claude-opus-4-5"},
		"inherit untouched":             {model: "inherit", want: "inherit"},
		"unqualified gains namespace":   {model: "custom-model", want: "anthropic/custom-model"},
		"already qualified passthrough": {model: "vendor/custom", want: "vendor/custom"},
	}

	a := New()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := "---\nname: x\nmodel: " + tt.model + "\n---\nbody"
			got, err := a.TransformAgent(doc, nil)
			if err != nil {
				t.Fatalf("TransformAgent() error = %v", err)
			}
			fm, _ := extractResult(t, got)
			if fm["model"] != tt.want {
				t.Errorf("model = %v, want %q", fm["model"], tt.want)
			}
		})
	}
}

func TestTransformAgent_TypeBecomesMode(t *testing.T) {
	tests := map[string]struct {
		frontmatter string
		wantMode    any
	}{
		"subagent": {
			frontmatter: "name: x\ntype: subagent",
			wantMode:    "subagent",
		},
		"primary": {
			frontmatter: "name: x\ntype: primary",
			wantMode:    "primary",
		},
		"existing mode wins": {
			frontmatter: "name: x\ntype: subagent\nmode: all",
			wantMode:    "all",
		},
		"unrecognized type dropped without mode": {
			frontmatter: "name: x\ntype: tool",
			wantMode:    nil,
		},
	}

	a := New()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := "---\n" + tt.frontmatter + "\n---\nbody"
			got, err := a.TransformAgent(doc, nil)
			if err != nil {
				t.Fatalf("TransformAgent() error = %v", err)
			}
			fm, _ := extractResult(t, got)
			if _, hasType := fm["type"]; hasType {
				t.Error("type field should be removed")
			}
			if fm["mode"] != tt.wantMode {
				t.Errorf("mode = %v, want %v", fm["mode"], tt.wantMode)
			}
		})
	}
}

func TestTransformAgent_DropsIncompatibleFields(t *testing.T) {
	doc := `---
name: x
version: 1.2.0
last_updated: 2025-06-01
changelog: initial release
output_schema: strict
description: kept
---
body`

	a := New()
	got, err := a.TransformAgent(doc, nil)
	if err != nil {
		t.Fatalf("TransformAgent() error = %v", err)
	}
	fm, _ := extractResult(t, got)

	for _, field := range []string{"version", "last_updated", "changelog", "output_schema"} {
		if _, ok := fm[field]; ok {
			t.Errorf("field %q should be dropped", field)
		}
	}
	if fm["description"] != "kept" {
		t.Errorf("description = %v, want kept", fm["description"])
	}
}

func TestTransformCommand_ArgumentHint(t *testing.T) {
	tests := map[string]struct {
		frontmatter  string
		wantHint     any
		wantArgs     any
		wantArgsName string
	}{
		"args renamed": {
			frontmatter:  "description: d\nargs: <file>",
			wantHint:     "<file>",
			wantArgsName: "args",
		},
		"arguments renamed": {
			frontmatter:  "description: d\narguments: <pattern>",
			wantHint:     "<pattern>",
			wantArgsName: "arguments",
		},
		"args checked before arguments": {
			frontmatter:  "description: d\nargs: first\narguments: second",
			wantHint:     "first",
			wantArgsName: "args",
			wantArgs:     "second",
		},
		"existing hint preserved": {
			frontmatter:  "description: d\nargs: ignored\nargument-hint: kept",
			wantHint:     "kept",
			wantArgsName: "",
			wantArgs:     "ignored",
		},
	}

	a := New()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := "---\n" + tt.frontmatter + "\n---\nbody"
			got, err := a.TransformCommand(doc, nil)
			if err != nil {
				t.Fatalf("TransformCommand() error = %v", err)
			}
			fm, _ := extractResult(t, got)

			if fm["argument-hint"] != tt.wantHint {
				t.Errorf("argument-hint = %v, want %v", fm["argument-hint"], tt.wantHint)
			}
			if tt.wantArgsName != "" {
				if _, ok := fm[tt.wantArgsName]; ok {
					t.Errorf("field %q should have been renamed away", tt.wantArgsName)
				}
			}
			if name == "args checked before arguments" && fm["arguments"] != tt.wantArgs {
				t.Errorf("arguments = %v, want untouched %v", fm["arguments"], tt.wantArgs)
			}
			if name == "existing hint preserved" && fm["args"] != tt.wantArgs {
				t.Errorf("args = %v, want untouched %v", fm["args"], tt.wantArgs)
			}
		})
	}
}

func TestTransformCommand_DropsIncompatibleFields(t *testing.T) {
	doc := `---
name: deploy
version: "2.0"
type: slash
tags: [ops, deploy]
description: kept
---
body`

	a := New()
	got, err := a.TransformCommand(doc, nil)
	if err != nil {
		t.Fatalf("TransformCommand() error = %v", err)
	}
	fm, _ := extractResult(t, got)

	for _, field := range []string{"name", "version", "type", "tags"} {
		if _, ok := fm[field]; ok {
			t.Errorf("field %q should be dropped", field)
		}
	}
	if fm["description"] != "kept" {
		t.Errorf("description = %v, want kept", fm["description"])
	}
}

func TestTransform_NoFrontmatterPassthrough(t *testing.T) {
	a := New()
	body := "Plain document with no metadata block.\nJust prose."

	transforms := map[string]func(string, map[string]any) (string, error){
		"skill":   a.TransformSkill,
		"agent":   a.TransformAgent,
		"command": a.TransformCommand,
		"hook":    a.TransformHook,
	}

	for name, transform := range transforms {
		t.Run(name, func(t *testing.T) {
			got, err := transform(body, nil)
			if err != nil {
				t.Fatalf("transform error = %v", err)
			}
			if got != body {
				t.Errorf("got %q, want unchanged body", got)
			}
		})
	}
}

func TestTransformSkill_BodyToolReferences(t *testing.T) {
	tests := map[string]struct {
		body string
		want string
	}{
		"tool reference rewritten": {
			body: "Use the Bash tool to run commands.",
			want: "Use the bash tool to run commands.",
		},
		"command reference rewritten": {
			body: "Run the WebFetch command first.",
			want: "Run the webfetch command first.",
		},
		"case-insensitive match": {
			body: "The BASH Tool helps.",
			want: "The bash Tool helps.",
		},
		"plain prose untouched": {
			body: "Bash scripting is useful. Read the docs.",
			want: "Bash scripting is useful. Read the docs.",
		},
		"mid-word not matched": {
			body: "The Readme tool explains things.",
			want: "The Readme tool explains things.",
		},
	}

	a := New()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := a.TransformSkill(tt.body, nil)
			if err != nil {
				t.Fatalf("TransformSkill() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransformHook_PlaceholderRewrite(t *testing.T) {
	tests := map[string]struct {
		content string
		want    string
	}{
		"braced root with hooks subdir": {
			content: `"command": "${CLAUDE_PLUGIN_ROOT}/hooks/notify.py"`,
			want:    `"command": "bash ~/.config/opencode/hook/notify.py"`,
		},
		"unbraced root with hooks subdir": {
			content: "$CLAUDE_PLUGIN_ROOT/hooks/ref.sh",
			want:    "bash ~/.config/opencode/hook/ref.sh",
		},
		"bare braced root": {
			content: "cd ${CLAUDE_PLUGIN_ROOT} && ls",
			want:    "cd ~/.config/opencode && ls",
		},
		"bare unbraced root": {
			content: "echo $CLAUDE_PLUGIN_ROOT",
			want:    "echo ~/.config/opencode",
		},
		"mixed content": {
			content: "${CLAUDE_PLUGIN_ROOT}/hooks/a.py and ${CLAUDE_PLUGIN_ROOT}/skills",
			want:    "bash ~/.config/opencode/hook/a.py and ~/.config/opencode/skills",
		},
	}

	a := New()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := a.TransformHook(tt.content, nil)
			if err != nil {
				t.Fatalf("TransformHook() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "CLAUDE_PLUGIN_ROOT") {
				t.Errorf("unrewritten placeholder remains in %q", got)
			}
		})
	}
}

func TestInstallPath_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvInstallPath, "")

	a := New()
	want := filepath.Join(home, ".config", "opencode")
	if got := a.InstallPath(); got != want {
		t.Errorf("InstallPath() = %q, want %q", got, want)
	}
}

func TestInstallPath_OverrideWithinHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	override := filepath.Join(home, "custom", "opencode")
	t.Setenv(EnvInstallPath, override)

	a := New()
	if got := a.InstallPath(); got != override {
		t.Errorf("InstallPath() = %q, want override %q", got, override)
	}
}

func TestInstallPath_OverrideOutsideHomeRejected(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvInstallPath, "/tmp/evil-opencode")

	a := New()
	want := filepath.Join(home, ".config", "opencode")
	if got := a.InstallPath(); got != want {
		t.Errorf("InstallPath() = %q, want default %q", got, want)
	}
}

func TestInstallPath_SiblingPrefixRejected(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	// String-prefix matching would wrongly accept this.
	t.Setenv(EnvInstallPath, home+"-sibling/opencode")

	a := New()
	want := filepath.Join(home, ".config", "opencode")
	if got := a.InstallPath(); got != want {
		t.Errorf("InstallPath() = %q, want default %q", got, want)
	}
}

func TestInstallPath_Memoized(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvInstallPath, "")

	a := New()
	first := a.InstallPath()

	t.Setenv(EnvInstallPath, filepath.Join(home, "late-override"))
	if got := a.InstallPath(); got != first {
		t.Errorf("InstallPath() = %q after env change, want memoized %q", got, first)
	}
}

func TestComponentMapping(t *testing.T) {
	a := New()
	mapping := a.ComponentMapping()

	wantDirs := map[model.Component]string{
		model.Agents:   "agent",
		model.Commands: "command",
		model.Skills:   "skill",
		model.Hooks:    "hook",
	}
	for comp, dir := range wantDirs {
		target, ok := mapping[comp]
		if !ok {
			t.Fatalf("missing mapping for %s", comp)
		}
		if target.Dir != dir {
			t.Errorf("%s dir = %q, want singular %q", comp, target.Dir, dir)
		}
	}
	if mapping[model.Skills].Extension != ".md" {
		t.Errorf("skills extension = %q, want .md", mapping[model.Skills].Extension)
	}
	if mapping[model.Hooks].Extension != "" {
		t.Errorf("hooks extension = %q, want empty", mapping[model.Hooks].Extension)
	}
}

func TestAdapterCapabilities(t *testing.T) {
	a := New()

	if a.Platform() != model.OpenCode {
		t.Errorf("Platform() = %v, want %v", a.Platform(), model.OpenCode)
	}
	if !a.IsNativeFormat() {
		t.Error("IsNativeFormat() = false, want true")
	}
	if a.RequiresHooksInSettings() {
		t.Error("RequiresHooksInSettings() = true, want false")
	}
	if got := a.TargetFilename("my-skill.md", model.Skills); got != "my-skill.md" {
		t.Errorf("TargetFilename() = %q, want unchanged", got)
	}

	terms := a.Terminology()
	for _, concept := range []string{"agent", "skill", "command", "hook"} {
		if terms[concept] != concept {
			t.Errorf("Terminology()[%q] = %q, want identity", concept, terms[concept])
		}
	}
}

func TestConfigPath_PrefersJSONC(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvInstallPath, "")

	install := filepath.Join(home, ".config", "opencode")
	if err := os.MkdirAll(install, 0o755); err != nil {
		t.Fatal(err)
	}

	a := New()
	if got, want := a.ConfigPath(), filepath.Join(install, "opencode.json"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}

	if err := os.WriteFile(filepath.Join(install, "opencode.jsonc"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, want := a.ConfigPath(), filepath.Join(install, "opencode.jsonc"); got != want {
		t.Errorf("ConfigPath() = %q, want jsonc %q", got, want)
	}
}
