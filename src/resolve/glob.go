package resolve

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// trimRoot drops one leading "/". Packaging patterns are always relative
// to the archive root, so "/META-INF/x" and "META-INF/x" are the same.
func trimRoot(pattern string) string {
	return strings.TrimPrefix(pattern, "/")
}

// MatchGlob matches a packaging glob against a forward-slash resource path.
// "**" spans path segments and "{a,b}" matches either alternative.
func MatchGlob(pattern, name string) bool {
	matched, err := doublestar.Match(trimRoot(pattern), name)
	return err == nil && matched
}

// ValidateGlob reports whether pattern is a well-formed packaging glob.
func ValidateGlob(pattern string) error {
	p := trimRoot(pattern)
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("empty pattern")
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("pattern %q has more than one leading /", pattern)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg != "**" && strings.Contains(seg, "**") {
			return fmt.Errorf("pattern %q: ** must be a whole path segment", pattern)
		}
	}
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return nil
}
