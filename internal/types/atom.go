package types

import "strings"

// UseDep is one USE-flag requirement carried by an atom. Conditional
// deps ("flag?" / "!flag=") depend on the requesting package's own flag
// state and are what make an atom transitive.
type UseDep struct {
	Flag        string
	Negate      bool
	Conditional bool
	Default     string
}

func (u UseDep) String() string {
	var b strings.Builder
	if u.Negate {
		b.WriteString("!")
	}
	b.WriteString(u.Flag)
	if u.Default != "" {
		b.WriteString("(" + u.Default + ")")
	}
	if u.Conditional {
		b.WriteString("?")
	}
	return b.String()
}

// Atom is a single immutable dependency constraint. Atoms compare by
// their canonical Key; identical textual atoms share one cache entry.
type Atom struct {
	Category string
	Package  string
	Op       VersionOp
	Version  string
	Slot     string
	SlotOp   string
	Blocks   bool
	Use      []UseDep
}

// Key returns the canonical textual form of the atom, used as the cache
// key throughout the engine.
func (a Atom) Key() string {
	var b strings.Builder
	if a.Blocks {
		b.WriteString("!")
	}
	if a.Op == VersionOpEqStar {
		b.WriteString(string(VersionOpEq))
	} else {
		b.WriteString(string(a.Op))
	}
	b.WriteString(a.Category)
	b.WriteString("/")
	b.WriteString(a.Package)
	if a.Version != "" {
		b.WriteString("-" + a.Version)
	}
	if a.Op == VersionOpEqStar {
		b.WriteString("*")
	}
	if a.Slot != "" || a.SlotOp != "" {
		b.WriteString(":" + a.Slot + a.SlotOp)
	}
	if len(a.Use) > 0 {
		parts := make([]string, len(a.Use))
		for i, u := range a.Use {
			parts[i] = u.String()
		}
		b.WriteString("[" + strings.Join(parts, ",") + "]")
	}
	return b.String()
}

func (a Atom) String() string {
	return a.Key()
}

// StripUse returns the atom without its USE requirements. USE deps never
// change which repository packages match, only whether the requirement
// is active, so the stripped form is the query-cache key.
func (a Atom) StripUse() Atom {
	if len(a.Use) == 0 {
		return a
	}
	stripped := a
	stripped.Use = nil
	return stripped
}

// TransitiveUseCount reports how many of the atom's USE deps are
// conditional on the requesting package's own configuration.
func (a Atom) TransitiveUseCount() int {
	n := 0
	for _, u := range a.Use {
		if u.Conditional {
			n++
		}
	}
	return n
}

// KeyName returns the unversioned category/package pair.
func (a Atom) KeyName() string {
	return a.Category + "/" + a.Package
}
