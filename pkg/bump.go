package releaseflow

// BumpLevel is the size of a version increment. Levels are ordered so the
// dominant bump of a set of commits is simply the maximum.
type BumpLevel int

const (
	BumpNone BumpLevel = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

func (b BumpLevel) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "none"
	}
}

// BumpFor returns the bump a single classified commit contributes.
func BumpFor(c ClassifiedCommit) BumpLevel {
	switch {
	case c.Breaking:
		return BumpMajor
	case c.Type == "feat":
		return BumpMinor
	case c.Type == "fix":
		return BumpPatch
	default:
		return BumpNone
	}
}

// ResolveBump classifies every message and folds the contributions into the
// maximum bump level. Messages that are not conventional commits contribute
// nothing. The fold stops early once a major bump is seen.
func ResolveBump(messages []string) BumpLevel {
	bump := BumpNone
	for _, msg := range messages {
		c, ok := Classify(msg)
		if !ok {
			continue
		}
		bump = max(bump, BumpFor(c))
		if bump == BumpMajor {
			break
		}
	}
	return bump
}
