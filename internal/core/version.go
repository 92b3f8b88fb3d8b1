package core

import (
	"regexp"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"

	"keywordscan/internal/types"
)

// versionCache memoizes parsed version objects to avoid repeated parsing
// while the same constraint is compared against many candidate versions.
type versionCache struct {
	parsed map[string]debversion.Version
	failed map[string]struct{}
}

func newVersionCache() *versionCache {
	return &versionCache{
		parsed: map[string]debversion.Version{},
		failed: map[string]struct{}{},
	}
}

func (c *versionCache) version(value string) (debversion.Version, bool) {
	if parsed, ok := c.parsed[value]; ok {
		return parsed, true
	}
	if _, ok := c.failed[value]; ok {
		return debversion.Version{}, false
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		c.failed[value] = struct{}{}
		return debversion.Version{}, false
	}
	c.parsed[value] = parsed
	return parsed, true
}

// compare returns -1, 0, or 1 for two version strings. Unparseable
// versions fall back to lexical comparison so ordering stays total.
func (c *versionCache) compare(a string, b string) int {
	v1, ok1 := c.version(a)
	v2, ok2 := c.version(b)
	if !ok1 || !ok2 {
		return strings.Compare(a, b)
	}
	return v1.Compare(v2)
}

var revisionSuffix = regexp.MustCompile(`-r\d+$`)

// Matcher answers whether an atom matches a concrete package, memoizing
// version parses across calls.
type Matcher struct {
	versions *versionCache
}

func NewMatcher() *Matcher {
	return &Matcher{versions: newVersionCache()}
}

// Matches reports whether pkg satisfies the atom's name, slot, and
// version constraints. Blocks and USE requirements are ignored here;
// they concern the solvability engine, not repository matching.
func (m *Matcher) Matches(atom types.Atom, pkg types.Package) bool {
	if atom.Category != pkg.Category || atom.Package != pkg.Name {
		return false
	}
	if atom.Slot != "" && pkg.Slot != atom.Slot {
		return false
	}
	switch atom.Op {
	case types.VersionOpNone:
		return true
	case types.VersionOpEq:
		return m.versions.compare(pkg.Version, atom.Version) == 0
	case types.VersionOpEqStar:
		// the prefix must end on a component boundary: "1.1" matches
		// "1.1.2" but not "1.10"
		rest, ok := strings.CutPrefix(pkg.Version, atom.Version)
		if !ok {
			return false
		}
		return rest == "" || rest[0] == '.' || rest[0] == '-' || rest[0] == '_'
	case types.VersionOpRev:
		// same upstream version, any revision
		return revisionSuffix.ReplaceAllString(pkg.Version, "") ==
			revisionSuffix.ReplaceAllString(atom.Version, "")
	case types.VersionOpGte:
		return m.versions.compare(pkg.Version, atom.Version) >= 0
	case types.VersionOpLte:
		return m.versions.compare(pkg.Version, atom.Version) <= 0
	case types.VersionOpGt:
		return m.versions.compare(pkg.Version, atom.Version) > 0
	case types.VersionOpLt:
		return m.versions.compare(pkg.Version, atom.Version) < 0
	}
	return false
}

// CompareVersions exposes memoized version ordering for callers that
// sort package streams.
func (m *Matcher) CompareVersions(a string, b string) int {
	return m.versions.compare(a, b)
}
