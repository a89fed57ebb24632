package adapter

import (
	"regexp"
	"sort"
	"strings"
)

// ToolPair maps one canonical Ring tool name to a platform name.
type ToolPair struct {
	Canonical string
	Platform  string
}

// ToolTable is an immutable canonical-to-platform tool-name mapping. Tables
// are built once at package init and shared read-only across adapter
// instances. Entry order is preserved so body rewrites are deterministic.
type ToolTable struct {
	pairs  []ToolPair
	byName map[string]string
	refRes []*regexp.Regexp
}

// NewToolTable builds a tool table from ordered pairs.
func NewToolTable(pairs []ToolPair) *ToolTable {
	t := &ToolTable{
		pairs:  pairs,
		byName: make(map[string]string, len(pairs)),
		refRes: make([]*regexp.Regexp, len(pairs)),
	}
	for i, p := range pairs {
		if _, ok := t.byName[p.Canonical]; !ok {
			t.byName[p.Canonical] = p.Platform
		}
		// Only rewrite prose references immediately followed by the word
		// "tool" or "command", to avoid corrupting unrelated text that
		// merely contains a tool's name.
		t.refRes[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p.Canonical) + `(\s+(?:tool|command)\b)`)
	}
	return t
}

// Map translates a single tool name, falling back to a lower-cased copy of
// the original when no mapping exists.
func (t *ToolTable) Map(name string) string {
	if mapped, ok := t.byName[name]; ok {
		return mapped
	}
	return strings.ToLower(name)
}

// RewriteValue rewrites a frontmatter tools value. Mappings keep their
// enabled/disabled values under the translated keys; when two source keys
// translate to the same name, keys are processed in sorted order and the
// last write wins, so repeated transforms of one document agree. Lists are
// translated with case-insensitive dedup, first occurrence winning and
// order preserved; non-string entries pass through unchanged. Any other
// value is returned as-is.
func (t *ToolTable) RewriteValue(tools any) any {
	switch v := tools.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for tool := range v {
			keys = append(keys, tool)
		}
		sort.Strings(keys)
		rewritten := make(map[string]any, len(v))
		for _, tool := range keys {
			rewritten[t.Map(tool)] = v[tool]
		}
		return rewritten
	case []any:
		rewritten := make([]any, 0, len(v))
		seen := make(map[string]bool, len(v))
		for _, entry := range v {
			name, ok := entry.(string)
			if !ok {
				rewritten = append(rewritten, entry)
				continue
			}
			mapped := t.Map(name)
			if seen[mapped] {
				continue
			}
			seen[mapped] = true
			rewritten = append(rewritten, mapped)
		}
		return rewritten
	default:
		return tools
	}
}

// RewriteReferences translates whole-word, case-insensitive tool names in
// body text, but only when immediately followed by whitespace and the word
// "tool" or "command".
func (t *ToolTable) RewriteReferences(text string) string {
	result := text
	for i, p := range t.pairs {
		result = t.refRes[i].ReplaceAllString(result, p.Platform+"$1")
	}
	return result
}

// RewriteModel translates a frontmatter model value. Known shorthands are
// replaced by the platform's fully qualified identifier; any other value
// lacking a namespace separator (and not the literal "inherit") gains the
// default namespace prefix. Non-string values are returned unchanged.
func RewriteModel(model any, table map[string]string, defaultNamespace string) any {
	name, ok := model.(string)
	if !ok {
		return model
	}
	if mapped, ok := table[name]; ok {
		return mapped
	}
	if !strings.Contains(name, "/") && name != "inherit" {
		return defaultNamespace + "/" + name
	}
	return model
}
