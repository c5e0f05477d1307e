package reconcile

import (
	"fmt"
	"regexp"
)

// Matcher decides whether an artifact name participates in release
// asset reconciliation. Keeping it a plain predicate keeps the
// matching strategy swappable without touching the reconciliation
// algorithm.
type Matcher func(name string) bool

// CompileMatcher turns a regular expression pattern into a Matcher.
func CompileMatcher(pattern string) (Matcher, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact match pattern %q: %w", pattern, err)
	}
	return func(name string) bool {
		return compiled.MatchString(name)
	}, nil
}

// DefaultPattern anchors on exact equality with the derived artifact
// name. The name is interpolated without quoting, as upstream does.
func DefaultPattern(artifactName string) string {
	return fmt.Sprintf("^%s$", artifactName)
}
