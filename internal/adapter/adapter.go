// Package adapter defines the contract every target-platform adapter
// implements, plus the shared name-rewrite helpers the adapters build on.
package adapter

import (
	"fmt"

	"github.com/klauern/ringport/internal/model"
)

// Adapter converts Ring artifacts into a target platform's format.
//
// The Transform methods are pure with respect to the filesystem; only
// MergeHooks touches durable state. Every method must handle a document
// with empty or absent frontmatter by passing the body through unchanged.
type Adapter interface {
	// Platform returns the platform identifier this adapter targets.
	Platform() model.Platform

	// Name returns the human-readable platform name.
	Name() string

	// TransformSkill converts a skill document.
	TransformSkill(content string, meta map[string]any) (string, error)

	// TransformAgent converts an agent document.
	TransformAgent(content string, meta map[string]any) (string, error)

	// TransformCommand converts a command document.
	TransformCommand(content string, meta map[string]any) (string, error)

	// TransformHook converts a hook document. Hook content is rewritten as
	// plain text (path placeholders), never parsed.
	TransformHook(content string, meta map[string]any) (string, error)

	// InstallPath returns the platform's install directory. Environment
	// overrides outside the user's home are rejected with a warning. The
	// result is memoized for the adapter's lifetime.
	InstallPath() string

	// ComponentMapping reports where each artifact kind lands on the
	// platform.
	ComponentMapping() map[model.Component]model.ComponentTarget

	// Terminology maps Ring concept names to the platform's display names.
	Terminology() map[string]string

	// IsNativeFormat reports whether the platform's document shape is close
	// enough to Ring's that transformation is near-identity.
	IsNativeFormat() bool

	// RequiresHooksInSettings reports whether hooks must be merged into the
	// platform's shared settings file instead of written as standalone files.
	RequiresHooksInSettings() bool

	// TargetFilename maps a source filename to the platform's filename for
	// the given component.
	TargetFilename(source string, comp model.Component) string

	// MergeHooks merges structured hook declarations into the platform's
	// persisted configuration. installPath overrides the adapter's install
	// path when non-empty. Failures are logged and reported as false, never
	// propagated.
	MergeHooks(hooks map[string]any, dryRun bool, installPath string) bool
}

// Transform routes a document through the adapter's per-kind transform.
// Metadata extraction happens inside the adapter, so meta is an optional
// side channel and may be nil.
func Transform(a Adapter, comp model.Component, content string, meta map[string]any) (string, error) {
	switch comp {
	case model.Skills:
		return a.TransformSkill(content, meta)
	case model.Agents:
		return a.TransformAgent(content, meta)
	case model.Commands:
		return a.TransformCommand(content, meta)
	case model.Hooks:
		return a.TransformHook(content, meta)
	default:
		return "", fmt.Errorf("unknown component kind %q", comp)
	}
}
