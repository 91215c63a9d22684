package depot

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is one compiled hide rule. Rules use gitignore-style globs:
// "*" matches within a segment, "**" crosses segments, a leading "!"
// negates an earlier match, a trailing "/" matches a whole subtree.
type Pattern struct {
	Regex  *regexp.Regexp
	Negate bool
}

// ParsePatterns compiles hide rules from configuration. Blank lines and
// "#" comments are ignored.
func ParsePatterns(lines []string) ([]*Pattern, error) {
	patterns := make([]*Pattern, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		negate := false
		if strings.HasPrefix(line, "!") {
			negate = true
			line = line[1:]
		}
		line = strings.TrimPrefix(line, `\`)

		line = strings.ReplaceAll(line, "**/", ".*/")
		line = strings.ReplaceAll(line, "/**", "/.*")
		line = strings.ReplaceAll(line, "*", "[^/]*")
		line = strings.ReplaceAll(line, "?", "[^/]")
		if strings.HasSuffix(line, "/") {
			line += ".*"
		}

		expr := line
		if !strings.HasPrefix(expr, ".*/") {
			if strings.HasPrefix(expr, "/") {
				expr = "^" + expr[1:]
			} else {
				expr = "(.*/|^)" + expr
			}
		}

		regex, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid hide pattern %q (rule %d): %w", expr, i+1, err)
		}
		patterns = append(patterns, &Pattern{Regex: regex, Negate: negate})
	}
	return patterns, nil
}

// matchPatterns applies the rules in order; the last matching rule wins.
func matchPatterns(patterns []*Pattern, relPath string) bool {
	hidden := false
	for _, p := range patterns {
		if p.Regex.MatchString(relPath) {
			hidden = !p.Negate
		}
	}
	return hidden
}
