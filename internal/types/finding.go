package types

import (
	"fmt"
	"strings"
)

// FindingKind is the closed set of finding variants the scanner emits.
type FindingKind string

const (
	// FindingNonExistentDeps marks depset atoms with zero repository
	// matches, independent of any profile.
	FindingNonExistentDeps FindingKind = "non-existent-deps"
	// FindingNonsolvableDeps marks a (package, attribute, profile)
	// tuple where no dependency solution is satisfiable.
	FindingNonsolvableDeps FindingKind = "nonsolvable-deps"
	// FindingUncheckableDep marks an attribute whose expression
	// exceeded the expansion limit and was skipped.
	FindingUncheckableDep FindingKind = "uncheckable-dep"
	// FindingVisibleVCSPkg marks a live VCS version visible under a
	// stable profile.
	FindingVisibleVCSPkg FindingKind = "visible-vcs-pkg"
)

// Finding is one structured scan result. Only the fields relevant to a
// kind are populated.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	Category string      `json:"category"`
	Package  string      `json:"package"`
	Version  string      `json:"version"`
	Attr     DepAttr     `json:"attr,omitempty"`
	Keyword  string      `json:"keyword,omitempty"`
	Profile  string      `json:"profile,omitempty"`
	Arch     string      `json:"arch,omitempty"`
	Atoms    []string    `json:"atoms,omitempty"`
}

// ShortDesc renders the finding the way it appears in console reports.
func (f Finding) ShortDesc() string {
	switch f.Kind {
	case FindingNonExistentDeps:
		return fmt.Sprintf("depset %s: nonexistent atoms [ %s ]",
			f.Attr, strings.Join(f.Atoms, ", "))
	case FindingNonsolvableDeps:
		return fmt.Sprintf("nonsolvable depset(%s) keyword(%s) profile(%s): solutions: [ %s ]",
			f.Attr, f.Keyword, f.Profile, strings.Join(f.Atoms, ", "))
	case FindingUncheckableDep:
		return fmt.Sprintf("depset %s: could not be checked, expression too large", f.Attr)
	case FindingVisibleVCSPkg:
		return fmt.Sprintf("VCS version visible for arch %s, profile %s", f.Arch, f.Profile)
	}
	return string(f.Kind)
}

// PkgKey returns the identity of the package the finding refers to.
func (f Finding) PkgKey() string {
	return f.Category + "/" + f.Package + "-" + f.Version
}
