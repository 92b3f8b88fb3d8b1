package types

import (
	"sort"
	"strings"
)

// FlagSet is an unordered set of USE flag names.
type FlagSet map[string]struct{}

func NewFlagSet(flags ...string) FlagSet {
	s := make(FlagSet, len(flags))
	for _, f := range flags {
		s[f] = struct{}{}
	}
	return s
}

func (s FlagSet) Has(flag string) bool {
	_, ok := s[flag]
	return ok
}

func (s FlagSet) Add(flag string) {
	s[flag] = struct{}{}
}

func (s FlagSet) Clone() FlagSet {
	out := make(FlagSet, len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}

func (s FlagSet) Union(other FlagSet) FlagSet {
	out := s.Clone()
	for f := range other {
		out[f] = struct{}{}
	}
	return out
}

func (s FlagSet) Intersect(other FlagSet) FlagSet {
	out := FlagSet{}
	for f := range s {
		if other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

func (s FlagSet) Subtract(other FlagSet) FlagSet {
	out := FlagSet{}
	for f := range s {
		if !other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

func (s FlagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Fingerprint returns a canonical textual form, usable as a map key.
func (s FlagSet) Fingerprint() string {
	return strings.Join(s.Sorted(), "\x00")
}

// FlagState is one profile's resolved flag view for one package:
// Immutable holds the flags the package cannot toggle itself, Enabled
// the subset of those that are forced on. Enabled is always a subset of
// Immutable.
type FlagState struct {
	Immutable FlagSet
	Enabled   FlagSet
}

// Fingerprint identifies flag states that evaluate a depset identically.
func (fs FlagState) Fingerprint() string {
	return fs.Immutable.Fingerprint() + "\x01" + fs.Enabled.Fingerprint()
}
