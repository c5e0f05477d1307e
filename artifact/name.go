package artifact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veldtlabs/sbomstage/syft"
)

var (
	offending     = regexp.MustCompile(`[^-a-zA-Z0-9]`)
	generatedStep = regexp.MustCompile(`^__[a-z]+_?`)
)

// Name derives the artifact file name for one run. An explicit
// override wins verbatim; collisions across multiple invocations in
// one workflow are then the caller's risk.
func Name(format syft.Format, override, image, repository, job, step string) string {
	if len(override) > 0 {
		return override
	}
	extension := format.Extension()
	if len(image) > 0 {
		return imageBased(image, extension)
	}
	return fmt.Sprintf("%s-%s%s.%s", repository, job, stepSuffix(step), extension)
}

// imageBased drops the registry host segment when present and joins
// the rest with dashes. Only the first character outside [-a-zA-Z0-9]
// is removed; that matches the upstream single-substitution behavior
// and is pinned by tests.
func imageBased(image, extension string) string {
	parts := strings.Split(image, "/")
	if len(parts) > 2 {
		parts = parts[1:]
	}
	base := strings.Join(parts, "-")
	if loc := offending.FindStringIndex(base); loc != nil {
		base = base[:loc[0]] + base[loc[1]:]
	}
	return fmt.Sprintf("%s.%s", base, extension)
}

// stepSuffix strips the runner's `__<token>` prefix from generated
// step identifiers, keeping only a meaningful remainder.
func stepSuffix(step string) string {
	if len(step) == 0 {
		return ""
	}
	remainder := step
	if strings.HasPrefix(step, "__") {
		remainder = generatedStep.ReplaceAllString(step, "")
	}
	if len(remainder) == 0 {
		return ""
	}
	return "-" + remainder
}
