package notes

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterDelimiter separates the leading metadata block from the
// document body.
const frontmatterDelimiter = "---"

// extractFrontmatter decodes the leading YAML front-matter block of a
// release note. The delimiter must appear at least twice; the block
// between the first two occurrences is decoded. Title derivation relies
// on a strict document convention, so a missing or undecodable block is
// an error rather than a fallback.
func extractFrontmatter(content []byte) (map[string]any, error) {
	parts := strings.SplitN(string(content), frontmatterDelimiter, 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("missing front-matter delimiter %q", frontmatterDelimiter)
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &frontmatter); err != nil {
		return nil, fmt.Errorf("decode front-matter: %w", err)
	}
	if frontmatter == nil {
		return nil, fmt.Errorf("empty front-matter block")
	}

	return frontmatter, nil
}
