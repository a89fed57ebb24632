// Package registry selects the platform adapter for a requested platform id.
package registry

import (
	"fmt"

	"github.com/klauern/ringport/internal/adapter"
	"github.com/klauern/ringport/internal/adapter/codex"
	"github.com/klauern/ringport/internal/adapter/opencode"
	"github.com/klauern/ringport/internal/model"
)

// Compile-time checks that each concrete adapter satisfies the contract.
var (
	_ adapter.Adapter = (*opencode.Adapter)(nil)
	_ adapter.Adapter = (*codex.Adapter)(nil)
)

// Factory creates an adapter, optionally rooted at a custom install path.
type Factory func(installPath string) adapter.Adapter

// OpenCodeFactory returns a Factory for OpenCode.
func OpenCodeFactory() Factory {
	return func(installPath string) adapter.Adapter {
		return opencode.NewWithInstallPath(installPath)
	}
}

// CodexFactory returns a Factory for Codex CLI.
func CodexFactory() Factory {
	return func(installPath string) adapter.Adapter {
		return codex.NewWithInstallPath(installPath)
	}
}

// FactoryFor returns the Factory for a platform id.
func FactoryFor(platform model.Platform) (Factory, error) {
	switch platform {
	case model.OpenCode:
		return OpenCodeFactory(), nil
	case model.Codex:
		return CodexFactory(), nil
	default:
		return nil, fmt.Errorf("unknown platform %q", platform)
	}
}

// For creates an adapter for a platform with its default install path.
func For(platform model.Platform) (adapter.Adapter, error) {
	return ForWithInstallPath(platform, "")
}

// ForWithInstallPath creates an adapter for a platform rooted at
// installPath. An empty installPath keeps the platform default.
func ForWithInstallPath(platform model.Platform, installPath string) (adapter.Adapter, error) {
	factory, err := FactoryFor(platform)
	if err != nil {
		return nil, err
	}
	return factory(installPath), nil
}

// All creates one adapter per supported platform with default install
// paths.
func All() []adapter.Adapter {
	adapters := make([]adapter.Adapter, 0, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		if a, err := For(p); err == nil {
			adapters = append(adapters, a)
		}
	}
	return adapters
}
