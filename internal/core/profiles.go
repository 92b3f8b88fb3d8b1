package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"keywordscan/internal/shared"
	"keywordscan/internal/types"
)

// atomSet holds canonical atom keys.
type atomSet map[string]struct{}

func (s atomSet) has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s atomSet) add(key string) {
	s[key] = struct{}{}
}

// protectedSet is an owned atom set layered over read-only bases.
// Lookups consult the bases, writes land in the owned layer only. This
// is how stable/unstable profile caches share proven results in one
// direction without a live reference cycle.
type protectedSet struct {
	bases []func(string) bool
	owned atomSet
}

func newProtectedSet(bases ...func(string) bool) *protectedSet {
	return &protectedSet{bases: bases, owned: atomSet{}}
}

func (s *protectedSet) Contains(key string) bool {
	if s.owned.has(key) {
		return true
	}
	for _, base := range s.bases {
		if base(key) {
			return true
		}
	}
	return false
}

func (s *protectedSet) Add(key string) {
	s.owned.add(key)
}

// flagData is one profile's merged masked or forced flag function:
// a global flag set plus per-package additions keyed by atom pattern.
// The fingerprint identifies structurally identical merges for grouping.
type flagData struct {
	fingerprint string
	global      types.FlagSet
	perPkg      []pkgFlagRule
}

type pkgFlagRule struct {
	pattern types.Atom
	flags   types.FlagSet
}

func newFlagData(global []string, perPkg []types.PackageFlags) *flagData {
	d := &flagData{global: types.NewFlagSet(global...)}
	for _, entry := range perPkg {
		d.perPkg = append(d.perPkg, pkgFlagRule{
			pattern: entry.Pattern,
			flags:   types.NewFlagSet(entry.Flags...),
		})
	}
	var b strings.Builder
	b.WriteString(d.global.Fingerprint())
	for _, rule := range d.perPkg {
		b.WriteString("\x02" + rule.pattern.Key() + "=" + rule.flags.Fingerprint())
	}
	d.fingerprint = b.String()
	return d
}

// pullData returns the flags the profile applies to one package.
func (d *flagData) pullData(pkg types.Package, matcher *Matcher) types.FlagSet {
	if len(d.perPkg) == 0 {
		return d.global
	}
	out := d.global.Clone()
	for _, rule := range d.perPkg {
		if matcher.Matches(rule.pattern, pkg) {
			for f := range rule.flags {
				out.Add(f)
			}
		}
	}
	return out
}

// Profile is one concrete build configuration: an architecture key
// ("amd64" stable, "~amd64" unstable), a visibility predicate, merged
// flag functions, and the run-long soluble/insoluble atom caches.
type Profile struct {
	Name       string
	Key        string
	Arch       string
	Deprecated bool

	maskedUse *flagData
	forcedUse *flagData
	masks     []types.Atom
	unmasks   []types.Atom
	provided  []types.Atom
	unstable  bool
	matcher   *Matcher

	soluble   *protectedSet
	insoluble *protectedSet
}

// Visible reports whether the package is unmasked and keyworded for
// this profile's stability level.
func (p *Profile) Visible(pkg types.Package) bool {
	if !p.keywordMatch(pkg) {
		return false
	}
	for _, mask := range p.masks {
		if !p.matcher.Matches(mask, pkg) {
			continue
		}
		unmasked := false
		for _, unmask := range p.unmasks {
			if p.matcher.Matches(unmask, pkg) {
				unmasked = true
				break
			}
		}
		if !unmasked {
			return false
		}
	}
	return true
}

func (p *Profile) keywordMatch(pkg types.Package) bool {
	for _, keyword := range pkg.Keywords {
		if keyword == p.Arch {
			return true
		}
		if p.unstable && keyword == "~"+p.Arch {
			return true
		}
	}
	return false
}

// MaskedUse returns the flags this profile masks for the package.
func (p *Profile) MaskedUse(pkg types.Package) types.FlagSet {
	return p.maskedUse.pullData(pkg, p.matcher)
}

// ForcedUse returns the flags this profile forces on for the package.
func (p *Profile) ForcedUse(pkg types.Package) types.FlagSet {
	return p.forcedUse.pullData(pkg, p.matcher)
}

// IdentifyUse resolves the package's flag state against this profile,
// restricted to the flags the depset actually branches on. Masking wins
// over forcing: a flag both masked and forced ends up immutable but
// disabled.
func (p *Profile) IdentifyUse(pkg types.Package, known types.FlagSet) types.FlagState {
	forced := p.ForcedUse(pkg)
	masked := p.MaskedUse(pkg)
	enabled := known.Intersect(forced)
	immutable := enabled.Union(known.Intersect(masked))
	if len(masked) > 0 {
		enabled = enabled.Subtract(masked)
	}
	return types.FlagState{Immutable: immutable, Enabled: enabled}
}

// ProvidesMatch reports whether a declared provided virtual satisfies
// the atom.
func (p *Profile) ProvidesMatch(atom types.Atom) bool {
	for _, prov := range p.provided {
		if prov.Category != atom.Category || prov.Package != atom.Package {
			continue
		}
		if atom.Op == types.VersionOpNone || prov.Version == "" {
			return true
		}
		fake := types.Package{
			Category: prov.Category,
			Name:     prov.Package,
			Version:  prov.Version,
			Slot:     atom.Slot,
		}
		if p.matcher.Matches(atom, fake) {
			return true
		}
	}
	return false
}

// sameFlagData reports whether two profiles share structurally identical
// masked and forced flag merges, the grouping criterion.
func (p *Profile) sameFlagData(other *Profile) bool {
	return p.maskedUse.fingerprint == other.maskedUse.fingerprint &&
		p.forcedUse.fingerprint == other.forcedUse.fingerprint
}

// ProfileIndex is the profile model for one run: every built profile
// keyed by architecture key, pre-partitioned into groups that share
// flag data, plus the cross-profile set of atoms with no repository
// matches at all.
type ProfileIndex struct {
	desiredArches   []string
	byKey           map[string][]*Profile
	groups          map[string][][]*Profile
	globalInsoluble atomSet
	matcher         *Matcher
}

// BuildProfiles resolves raw profile definitions into the profile model.
// Each raw profile yields a stable and an unstable variant whose caches
// are interlinked directionally: stable soluble results are readable by
// the unstable twin, unstable insoluble results by the stable twin, and
// the global insoluble set by everyone. A profile without an
// architecture, or a requested architecture without usable profiles, is
// a fatal configuration error.
func BuildProfiles(raw []types.RawProfile, desiredArches []string, knownArches []string, scanDeprecated bool, matcher *Matcher) (*ProfileIndex, error) {
	for _, profile := range raw {
		if strings.TrimSpace(profile.Arch) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("profile %s lacks arch settings, unable to use it", profile.Name))
		}
	}

	known := types.NewFlagSet(knownArches...)
	byArch := map[string][]types.RawProfile{}
	for _, profile := range raw {
		byArch[profile.Arch] = append(byArch[profile.Arch], profile)
	}

	if len(desiredArches) == 0 {
		desiredArches = knownArches
	}
	arches := make([]string, 0, len(desiredArches))
	for _, arch := range desiredArches {
		arches = append(arches, shared.StripKeyword(arch))
	}
	sort.Strings(arches)

	ix := &ProfileIndex{
		desiredArches:   arches,
		byKey:           map[string][]*Profile{},
		groups:          map[string][][]*Profile{},
		globalInsoluble: atomSet{},
		matcher:         matcher,
	}

	for _, arch := range arches {
		stableKey := arch
		unstableKey := "~" + arch

		// a package keyworded for one arch must not silently enable
		// another arch's flag
		otherArches := known.Subtract(types.NewFlagSet(arch)).Sorted()

		usable := 0
		for _, profile := range byArch[arch] {
			if profile.Deprecated && !scanDeprecated {
				log.Debug().Str("profile", profile.Name).Msg("skipping deprecated profile")
				continue
			}
			usable++

			maskedUse := newFlagData(
				append(append([]string{}, profile.MaskedUse...), otherArches...),
				profile.PkgMaskedUse)
			stableMaskedUse := newFlagData(
				append(append(append([]string{}, profile.MaskedUse...), profile.StableMaskedUse...), otherArches...),
				profile.PkgMaskedUse)
			forcedUse := newFlagData(
				append(append([]string{}, profile.ForcedUse...), arch),
				profile.PkgForcedUse)
			stableForcedUse := newFlagData(
				append(append(append([]string{}, profile.ForcedUse...), profile.StableForcedUse...), arch),
				profile.PkgForcedUse)

			// cache and insoluble are inversely paired: the stable
			// soluble cache is usable by unstable but not vice versa,
			// the unstable insoluble set is usable by stable but not
			// vice versa.
			stableSoluble := newProtectedSet()
			unstableInsoluble := newProtectedSet(ix.globalInsoluble.has)

			stable := &Profile{
				Name:       profile.Name,
				Key:        stableKey,
				Arch:       arch,
				Deprecated: profile.Deprecated,
				maskedUse:  stableMaskedUse,
				forcedUse:  stableForcedUse,
				masks:      profile.PackageMasks,
				unmasks:    profile.PackageUnmasks,
				provided:   profile.Provided,
				matcher:    matcher,
				soluble:    stableSoluble,
				insoluble:  newProtectedSet(unstableInsoluble.Contains),
			}
			unstable := &Profile{
				Name:       profile.Name,
				Key:        unstableKey,
				Arch:       arch,
				Deprecated: profile.Deprecated,
				maskedUse:  maskedUse,
				forcedUse:  forcedUse,
				masks:      profile.PackageMasks,
				unmasks:    profile.PackageUnmasks,
				provided:   profile.Provided,
				unstable:   true,
				matcher:    matcher,
				soluble:    newProtectedSet(stableSoluble.Contains),
				insoluble:  unstableInsoluble,
			}
			ix.byKey[stableKey] = append(ix.byKey[stableKey], stable)
			ix.byKey[unstableKey] = append(ix.byKey[unstableKey], unstable)
		}
		if usable == 0 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("arch %s has no usable profiles", arch))
		}
	}

	for key, profiles := range ix.byKey {
		var groups [][]*Profile
		for _, profile := range profiles {
			placed := false
			for i, group := range groups {
				if group[0].sameFlagData(profile) {
					groups[i] = append(group, profile)
					placed = true
					break
				}
			}
			if !placed {
				groups = append(groups, []*Profile{profile})
			}
		}
		ix.groups[key] = groups
	}

	log.Debug().
		Int("profiles", ix.Count()).
		Int("arches", len(arches)).
		Msg("profile model built")
	return ix, nil
}

// Count returns the number of built profiles across all keys.
func (ix *ProfileIndex) Count() int {
	n := 0
	for _, profiles := range ix.byKey {
		n += len(profiles)
	}
	return n
}

// Keys returns the architecture keys in sorted order.
func (ix *ProfileIndex) Keys() []string {
	keys := make([]string, 0, len(ix.byKey))
	for key := range ix.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ProfilesFor returns the profiles built for one architecture key.
func (ix *ProfileIndex) ProfilesFor(key string) []*Profile {
	return ix.byKey[key]
}

// GroupsFor returns the flag-data groups for one architecture key.
func (ix *ProfileIndex) GroupsFor(key string) [][]*Profile {
	return ix.groups[key]
}

// GlobalInsolubleHas reports whether the atom has already been proven
// to have zero repository matches.
func (ix *ProfileIndex) GlobalInsolubleHas(key string) bool {
	return ix.globalInsoluble.has(key)
}

// GlobalInsolubleAdd records an atom with zero repository matches.
func (ix *ProfileIndex) GlobalInsolubleAdd(key string) {
	ix.globalInsoluble.add(key)
}

// IdentifyProfiles returns the profile groups applicable to the
// package, derived from its keywords. Within each group only profiles
// whose visibility predicate matches the package survive; empty groups
// are dropped. Callers memoize the result per package.
func (ix *ProfileIndex) IdentifyProfiles(pkg types.Package) [][]*Profile {
	var out [][]*Profile
	for _, keyword := range pkg.UniqueKeywords() {
		groups, ok := ix.groups[keyword]
		if !ok {
			continue
		}
		for _, group := range groups {
			var visible []*Profile
			for _, profile := range group {
				if profile.Visible(pkg) {
					visible = append(visible, profile)
				}
			}
			if len(visible) > 0 {
				out = append(out, visible)
			}
		}
	}
	return out
}
