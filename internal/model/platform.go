package model

// Platform represents a supported target platform
type Platform string

const (
	OpenCode Platform = "opencode"
	Codex    Platform = "codex"
)

// IsValid returns true if the platform is recognized
func (p Platform) IsValid() bool {
	switch p {
	case OpenCode, Codex:
		return true
	default:
		return false
	}
}

// AllPlatforms returns all supported platforms
func AllPlatforms() []Platform {
	return []Platform{OpenCode, Codex}
}
