package frontmatter

import (
	"regexp"
	"strings"
)

// The tolerant parser only recognizes the canonical skill schema fields.
// Restricting to known names prevents misreading arbitrary prose that
// happens to contain a colon.
var (
	scalarFields = []string{"name", "description", "trigger", "skip_when", "when_to_use"}
	nestedFields = []string{"sequence", "related"}
	subFields    = []string{"after", "before", "similar", "complementary"}

	bracketListRe = regexp.MustCompile(`^\s*([a-z_]+):\s*\[([^\]]*)\]`)
)

// ParseTolerant is the recovery path for frontmatter that fails strict YAML
// parsing. It extracts the known scalar fields (taking the first meaningful
// line of multi-line block scalars) and the two known nested fields whose
// sub-fields carry bracketed lists. Anything else is dropped. The result map
// may be empty but is never nil.
func ParseTolerant(frontmatter []byte) map[string]any {
	result := map[string]any{}
	lines := strings.Split(string(frontmatter), "\n")

	for i := 0; i < len(lines); i++ {
		field, inline, ok := topLevelField(lines[i])
		if !ok {
			continue
		}

		// Gather the indented block following this field.
		block := []string{}
		j := i + 1
		for ; j < len(lines); j++ {
			if _, _, next := topLevelField(lines[j]); next {
				break
			}
			block = append(block, lines[j])
		}

		if isNestedField(field) {
			if nested := parseNestedBlock(block); len(nested) > 0 {
				result[field] = nested
			}
		} else if value := firstMeaningfulLine(inline, block); value != "" {
			result[field] = value
		}

		i = j - 1
	}

	return result
}

// topLevelField matches a known field name at the start of a line, returning
// the field name and any inline value after the colon.
func topLevelField(line string) (field, inline string, ok bool) {
	for _, f := range append(append([]string{}, scalarFields...), nestedFields...) {
		prefix := f + ":"
		if strings.HasPrefix(line, prefix) {
			return f, strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", "", false
}

func isNestedField(field string) bool {
	for _, f := range nestedFields {
		if f == field {
			return true
		}
	}
	return false
}

// firstMeaningfulLine picks the display value for a scalar field: the inline
// value if present, otherwise the first non-comment line of the block with
// any list marker stripped.
func firstMeaningfulLine(inline string, block []string) string {
	candidates := block
	if inline != "" && inline != "|" && inline != "|-" && inline != ">" && inline != ">-" {
		candidates = append([]string{inline}, block...)
	}

	for _, line := range candidates {
		cleaned := strings.TrimSpace(line)
		cleaned = strings.TrimPrefix(cleaned, "- ")
		if cleaned == "" || strings.HasPrefix(cleaned, "#") {
			continue
		}
		return trimQuotes(cleaned)
	}
	return ""
}

// parseNestedBlock extracts known sub-fields with bracketed list values,
// e.g. "after: [brainstorming, writing-plans]".
func parseNestedBlock(block []string) map[string]any {
	nested := map[string]any{}
	for _, line := range block {
		m := bracketListRe.FindStringSubmatch(line)
		if m == nil || !isKnownSubField(m[1]) {
			continue
		}
		var items []any
		for _, item := range strings.Split(m[2], ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimQuotes(trimmed))
			}
		}
		if len(items) > 0 {
			nested[m[1]] = items
		}
	}
	return nested
}

func isKnownSubField(name string) bool {
	for _, f := range subFields {
		if f == name {
			return true
		}
	}
	return false
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
