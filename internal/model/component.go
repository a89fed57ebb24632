package model

import "strings"

// Component identifies a Ring artifact kind. The canonical spelling is the
// plural directory name used by Ring plugins (skills/, agents/, ...).
type Component string

const (
	Skills   Component = "skills"
	Agents   Component = "agents"
	Commands Component = "commands"
	Hooks    Component = "hooks"
)

// IsValid returns true if the component kind is recognized
func (c Component) IsValid() bool {
	switch c {
	case Skills, Agents, Commands, Hooks:
		return true
	default:
		return false
	}
}

// Singular returns the singular form of the component name
func (c Component) Singular() string {
	return strings.TrimSuffix(string(c), "s")
}

// AllComponents returns all artifact kinds
func AllComponents() []Component {
	return []Component{Skills, Agents, Commands, Hooks}
}

// ParseComponent normalizes a user-supplied component name, accepting both
// singular and plural spellings.
func ParseComponent(s string) (Component, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skill", "skills":
		return Skills, true
	case "agent", "agents":
		return Agents, true
	case "command", "commands":
		return Commands, true
	case "hook", "hooks":
		return Hooks, true
	default:
		return "", false
	}
}

// ComponentTarget describes where a component lands on a target platform.
type ComponentTarget struct {
	// Dir is the directory name under the platform's install path.
	Dir string
	// Extension is the file extension for installed artifacts. Empty means
	// the source extension is preserved.
	Extension string
}
