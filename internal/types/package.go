package types

import "strings"

// Package is one version of a package as exposed by the metadata store.
type Package struct {
	Category string
	Name     string
	Version  string
	Slot     string
	Keywords []string
	IUse     []string
	Eclasses []string
	Depend   *DepNode
	RDepend  *DepNode
	PDepend  *DepNode
}

// Key uniquely identifies the package version within a repository.
func (p Package) Key() string {
	return p.Category + "/" + p.Name + "-" + p.Version
}

// KeyName returns the unversioned category/name pair.
func (p Package) KeyName() string {
	return p.Category + "/" + p.Name
}

// DepForAttr returns the raw dependency expression for one attribute.
func (p Package) DepForAttr(attr DepAttr) *DepNode {
	switch attr {
	case DepAttrDepend:
		return p.Depend
	case DepAttrRDepend:
		return p.RDepend
	case DepAttrPDepend:
		return p.PDepend
	}
	return nil
}

// UniqueKeywords returns the package's keyword set with duplicates
// dropped, preserving first-seen order.
func (p Package) UniqueKeywords() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// IUseSet returns the declared optional flags with any use-dep default
// suffixes stripped.
func (p Package) IUseSet() FlagSet {
	s := make(FlagSet, len(p.IUse))
	for _, f := range p.IUse {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "+"), "-")
		s.Add(f)
	}
	return s
}

// Inherits reports whether the package inherits the named eclass.
func (p Package) Inherits(eclass string) bool {
	for _, e := range p.Eclasses {
		if e == eclass {
			return true
		}
	}
	return false
}
