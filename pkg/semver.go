package releaseflow

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// SemanticVersion is a major.minor.patch release number. Values are never
// mutated in place; bumping always returns a fresh value.
type SemanticVersion struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ZeroVersion is the baseline used when no release tag exists yet.
var ZeroVersion = SemanticVersion{}

// String returns the version without a "v" prefix, e.g. "1.2.3".
func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// TagName returns the release tag for the version, e.g. "v1.2.3".
func (v SemanticVersion) TagName() string {
	return "v" + v.String()
}

// Compare returns -1, 0 or +1 ordering v against other by (major, minor, patch).
func (v SemanticVersion) Compare(other SemanticVersion) int {
	switch {
	case v.Major != other.Major:
		return cmpUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint(v.Minor, other.Minor)
	default:
		return cmpUint(v.Patch, other.Patch)
	}
}

// Less reports whether v sorts before other.
func (v SemanticVersion) Less(other SemanticVersion) bool {
	return v.Compare(other) < 0
}

// Next applies a bump level and returns the resulting version.
// BumpNone returns v unchanged.
func (v SemanticVersion) Next(bump BumpLevel) SemanticVersion {
	switch bump {
	case BumpMajor:
		return SemanticVersion{Major: v.Major + 1}
	case BumpMinor:
		return SemanticVersion{Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

func cmpUint(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Tag is a git tag whose name parsed as a release version.
type Tag struct {
	Name    string
	Version SemanticVersion
}

// ParseVersion parses "1.2.3" or "v1.2.3". Pre-release and build metadata
// suffixes are rejected, as are shortened forms like "v1.2".
func ParseVersion(s string) (SemanticVersion, error) {
	canonical := s
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) {
		return SemanticVersion{}, fmt.Errorf("%q is not a valid semantic version", s)
	}
	// semver.IsValid accepts "v1" and "v1.2"; require the full triple.
	if semver.Canonical(canonical) != canonical {
		return SemanticVersion{}, fmt.Errorf("%q is not a full major.minor.patch version", s)
	}
	if semver.Prerelease(canonical) != "" {
		return SemanticVersion{}, fmt.Errorf("%q carries a pre-release suffix", s)
	}

	parts := strings.Split(strings.TrimPrefix(canonical, "v"), ".")
	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return SemanticVersion{}, fmt.Errorf("parsing %q: %w", s, err)
		}
		nums[i] = n
	}
	return SemanticVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// ParseTag interprets a tag name as a release. Only an optional leading "v"
// is accepted as a prefix, so "release-1.2.3" does not parse.
func ParseTag(name string) (Tag, bool) {
	v, err := ParseVersion(name)
	if err != nil {
		return Tag{}, false
	}
	return Tag{Name: name, Version: v}, true
}

// LatestTag returns the tag with the highest version among names that parse.
// On equal versions the first name wins, so callers that need a stable choice
// should pass names in a stable order. Returns nil when nothing parses.
func LatestTag(names []string) *Tag {
	var latest *Tag
	for _, name := range names {
		tag, ok := ParseTag(name)
		if !ok {
			continue
		}
		if latest == nil || latest.Version.Less(tag.Version) {
			t := tag
			latest = &t
		}
	}
	return latest
}

// NextVersion resolves the bump implied by messages and applies it to current.
func NextVersion(current SemanticVersion, messages []string) (SemanticVersion, BumpLevel) {
	bump := ResolveBump(messages)
	return current.Next(bump), bump
}
