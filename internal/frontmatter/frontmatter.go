// Package frontmatter extracts and serializes YAML frontmatter blocks for
// Ring artifact documents. It has no knowledge of any target platform.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/ringport/internal/logging"
)

const delimiter = "---"

// SplitResult contains the raw frontmatter and remaining content.
type SplitResult struct {
	// Frontmatter contains the raw frontmatter bytes (YAML)
	Frontmatter []byte
	// Content contains the remaining content after the frontmatter block
	Content string
	// HasFrontmatter indicates whether a frontmatter block was found
	HasFrontmatter bool
}

// Split extracts the ---\n delimited frontmatter block at the start of a
// document. A document without one, or with an unterminated block, is not
// an error: the whole text is returned as content.
func Split(content []byte) SplitResult {
	delim := []byte(delimiter)
	if !bytes.HasPrefix(content, []byte(delimiter+"\n")) &&
		!bytes.HasPrefix(content, []byte(delimiter+"\r\n")) {
		return SplitResult{Content: string(content)}
	}

	remaining := content[len(delim):]
	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else {
		remaining = remaining[1:]
	}

	var fm []byte
	var bodyStart int
	found := false

	if bytes.HasPrefix(remaining, delim) {
		// Empty frontmatter: ---\n---\n
		fm = []byte{}
		bodyStart = len(delim)
		found = true
	} else {
		for _, eol := range []string{"\n", "\r\n"} {
			closing := []byte(eol + delimiter)
			if idx := bytes.Index(remaining, closing); idx != -1 {
				fm = remaining[:idx]
				bodyStart = idx + len(closing)
				found = true
				break
			}
		}
	}

	if !found {
		return SplitResult{Content: string(content)}
	}

	clean := bytes.ReplaceAll(fm, []byte("\r\n"), []byte("\n"))
	clean = bytes.TrimRight(clean, "\r")

	if bytes.HasPrefix(remaining[bodyStart:], []byte("\r\n")) {
		bodyStart += 2
	} else if bytes.HasPrefix(remaining[bodyStart:], []byte("\n")) {
		bodyStart++
	}

	return SplitResult{
		Frontmatter:    clean,
		Content:        string(remaining[bodyStart:]),
		HasFrontmatter: true,
	}
}

// Parse parses raw frontmatter bytes into a map using strict YAML.
func Parse(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var result map[string]any
	if err := yaml.Unmarshal(frontmatter, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Extract splits a document into metadata and body. Strict YAML parsing is
// attempted first; on failure the tolerant parser is used and the downgrade
// is surfaced only through logging. A document without a frontmatter block
// yields an empty map and the full text as body.
func Extract(content []byte) (map[string]any, string) {
	result := Split(content)
	if !result.HasFrontmatter {
		return map[string]any{}, result.Content
	}

	fm, err := Parse(result.Frontmatter)
	if err != nil {
		logging.Warn("frontmatter is not valid YAML, using tolerant parser",
			logging.Err(err),
		)
		fm = ParseTolerant(result.Frontmatter)
	}
	return fm, result.Content
}

// Serialize renders metadata back into a delimited frontmatter block ending
// with the closing delimiter and a newline. An empty map serializes to an
// empty string.
func Serialize(fm map[string]any) (string, error) {
	if len(fm) == 0 {
		return "", nil
	}

	out, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(delimiter)
	sb.WriteString("\n")
	sb.Write(bytes.TrimSpace(out))
	sb.WriteString("\n")
	sb.WriteString(delimiter)
	sb.WriteString("\n")
	return sb.String(), nil
}

// Reassemble joins metadata and body back into a document. When metadata is
// empty the body is returned unchanged.
func Reassemble(fm map[string]any, body string) (string, error) {
	if len(fm) == 0 {
		return body, nil
	}
	header, err := Serialize(fm)
	if err != nil {
		return "", err
	}
	return header + "\n" + body, nil
}
