package federation

import (
	"fmt"
	"regexp"
	"strconv"
)

const FederationSpecURLPrefix = "https://specs.apollo.dev/federation/"

var specVersionPattern = regexp.MustCompile(`v(\d+)\.(\d+)$`)

// SpecVersion is a federation spec version negotiated by @link.
type SpecVersion struct {
	Major int
	Minor int
}

// ParseSpecVersion extracts the version from the trailing vMAJOR.MINOR of url.
func ParseSpecVersion(url string) (SpecVersion, error) {
	ss := specVersionPattern.FindStringSubmatch(url)
	if len(ss) != 3 {
		return SpecVersion{}, &UnsupportedFederationVersionError{URL: url}
	}

	major, err := strconv.Atoi(ss[1])
	if err != nil {
		return SpecVersion{}, &UnsupportedFederationVersionError{URL: url}
	}
	minor, err := strconv.Atoi(ss[2])
	if err != nil {
		return SpecVersion{}, &UnsupportedFederationVersionError{URL: url}
	}

	return SpecVersion{Major: major, Minor: minor}, nil
}

// Compare returns -1, 0 or +1.
func (v SpecVersion) Compare(other SpecVersion) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether v is other or a later release.
func (v SpecVersion) AtLeast(other SpecVersion) bool {
	return v.Compare(other) >= 0
}

func (v SpecVersion) String() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}
