package syft

import "strings"

// Format is the SBOM output format requested from the scanner. It
// selects both the scanner output flag and the artifact file extension.
type Format string

const (
	FormatSpdxJson      Format = "spdx-json"
	FormatJson          Format = "json"
	FormatCycloneDxJson Format = "cyclonedx-json"
	FormatSpdx          Format = "spdx"
	FormatCycloneDx     Format = "cyclonedx"
	FormatTable         Format = "table"
	FormatText          Format = "text"

	DefaultFormat = FormatSpdxJson
)

// ParseFormat normalizes a format string. Unknown values are passed to
// the scanner verbatim, so it stays in charge of rejecting them.
func ParseFormat(value string) Format {
	nice := strings.ToLower(strings.TrimSpace(value))
	if len(nice) == 0 {
		return DefaultFormat
	}
	return Format(nice)
}

// Flag is the value handed to the scanner's `-o` option.
func (it Format) Flag() string {
	return string(it)
}

// Extension is the artifact file extension for this format.
func (it Format) Extension() string {
	switch it {
	case FormatSpdxJson:
		return "spdx.json"
	case FormatJson:
		return "syft.json"
	default:
		return string(it)
	}
}
