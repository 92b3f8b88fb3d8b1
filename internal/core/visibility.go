package core

import (
	"errors"

	"keywordscan/internal/ports"
	"keywordscan/internal/shared"
	"keywordscan/internal/types"
)

// vcsEclasses are the live-source eclasses whose versions must never be
// visible under a stable profile.
var vcsEclasses = map[string]struct{}{
	"subversion": {},
	"git":        {},
	"cvs":        {},
	"darcs":      {},
	"tla":        {},
	"bzr":        {},
	"mercurial":  {},
}

// virtualCategory atoms are provided by profiles, so zero repository
// matches for them is not a defect.
const virtualCategory = "virtual"

// VisibilityCheck determines, per package and profile, whether every
// dependency attribute has at least one satisfiable solution, and
// streams findings to the report sink.
type VisibilityCheck struct {
	profiles   *ProfileIndex
	queryCache *QueryCache
	collapser  *Collapser
	sink       ports.ReportSinkPort
}

func NewVisibilityCheck(profiles *ProfileIndex, queryCache *QueryCache, collapser *Collapser, sink ports.ReportSinkPort) *VisibilityCheck {
	return &VisibilityCheck{
		profiles:   profiles,
		queryCache: queryCache,
		collapser:  collapser,
		sink:       sink,
	}
}

// Feed runs every check against one package. The only errors returned
// are fatal ones: repository query failures and sink failures.
// Expression complexity problems degrade to uncheckable-dep findings on
// the affected attribute alone.
func (v *VisibilityCheck) Feed(pkg types.Package) error {
	for _, eclass := range pkg.Eclasses {
		if _, ok := vcsEclasses[eclass]; ok {
			if err := v.checkVisibilityVCS(pkg); err != nil {
				return err
			}
			break
		}
	}

	suppressed := map[types.DepAttr]bool{}
	for _, attr := range types.DepAttrs {
		recovered, err := v.existencePass(pkg, attr)
		if err != nil {
			return err
		}
		if recovered {
			suppressed[attr] = true
		}
	}

	for _, attr := range types.DepAttrs {
		if suppressed[attr] {
			continue
		}
		raw := pkg.DepForAttr(attr)
		if raw.IsEmpty() {
			continue
		}
		for _, evaluated := range v.collapser.CollapseEvaluateDepset(pkg, attr, raw) {
			uncheckable, err := v.processDepset(pkg, attr, evaluated)
			if err != nil {
				return err
			}
			if uncheckable {
				if err := v.report(types.Finding{
					Kind:     types.FindingUncheckableDep,
					Category: pkg.Category,
					Package:  pkg.Name,
					Version:  pkg.Version,
					Attr:     attr,
				}); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// checkVisibilityVCS reports the package for every stable profile it is
// visible under.
func (v *VisibilityCheck) checkVisibilityVCS(pkg types.Package) error {
	for _, key := range v.profiles.Keys() {
		if shared.IsUnstableKeyword(key) || shared.IsMaskedKeyword(key) {
			continue
		}
		for _, profile := range v.profiles.ProfilesFor(key) {
			if !profile.Visible(pkg) {
				continue
			}
			if err := v.report(types.Finding{
				Kind:     types.FindingVisibleVCSPkg,
				Category: pkg.Category,
				Package:  pkg.Name,
				Version:  pkg.Version,
				Arch:     profile.Key,
				Profile:  profile.Name,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// existencePass checks every atom of the raw expression for at least
// one repository match, profile-independently. Atoms proven matchless
// feed the global insoluble set so later packages skip the repository
// scan. Returns true when the attribute was reported uncheckable and
// must be skipped by the solvability pass.
func (v *VisibilityCheck) existencePass(pkg types.Package, attr types.DepAttr) (bool, error) {
	raw := pkg.DepForAttr(attr)
	if raw.IsEmpty() {
		return false, nil
	}
	atoms, err := FlattenAtoms(raw)
	if err != nil {
		if errors.Is(err, errTooComplex) {
			return true, v.report(types.Finding{
				Kind:     types.FindingUncheckableDep,
				Category: pkg.Category,
				Package:  pkg.Name,
				Version:  pkg.Version,
				Attr:     attr,
			})
		}
		return false, err
	}

	var nonexistent []string
	seen := atomSet{}
	for _, atom := range atoms {
		node := atom.StripUse()
		key := node.Key()
		// blockers and provided virtuals are exempt even when their
		// empty match set is already cached from an earlier attribute
		exempt := atom.Blocks || atom.Category == virtualCategory
		if matches, ok := v.queryCache.Get(node); ok {
			if len(matches) == 0 && !exempt && !seen.has(key) {
				seen.add(key)
				nonexistent = append(nonexistent, key)
			}
			continue
		}
		if v.profiles.GlobalInsolubleHas(key) {
			// prime an empty entry so the tight solvability loops do
			// not rescan the repository
			v.queryCache.Put(node, nil)
			if !exempt && !seen.has(key) {
				seen.add(key)
				nonexistent = append(nonexistent, key)
			}
			continue
		}
		matches, err := v.queryCache.GetOrCompute(node)
		if err != nil {
			return false, err
		}
		if len(matches) == 0 && !exempt {
			v.profiles.GlobalInsolubleAdd(key)
			if !seen.has(key) {
				seen.add(key)
				nonexistent = append(nonexistent, key)
			}
		}
	}
	if len(nonexistent) > 0 {
		return false, v.report(types.Finding{
			Kind:     types.FindingNonExistentDeps,
			Category: pkg.Category,
			Package:  pkg.Name,
			Version:  pkg.Version,
			Attr:     attr,
			Atoms:    nonexistent,
		})
	}
	return false, nil
}

// processDepset runs the per-profile solvability pass over one
// evaluated expression. Returns true when the expression's solution
// expansion exceeded the complexity limit.
func (v *VisibilityCheck) processDepset(pkg types.Package, attr types.DepAttr, evaluated EvaluatedDepSet) (bool, error) {
	solutions, err := Solutions(evaluated.DepSet)
	if err != nil {
		if errors.Is(err, errTooComplex) {
			return true, nil
		}
		return false, err
	}

	// a solution containing a blocker can never be satisfied by
	// installing something, so it is dropped before the profile loop
	csolutions := make([][]types.Atom, 0, len(solutions))
	for _, solution := range solutions {
		blocked := false
		for _, atom := range solution {
			if atom.Blocks {
				blocked = true
				break
			}
		}
		if !blocked {
			csolutions = append(csolutions, solution)
		}
	}
	if len(csolutions) == 0 {
		return false, nil
	}

	for _, profile := range evaluated.Profiles {
		satisfied := false
		var failures []string
		failureSeen := atomSet{}
		for _, solution := range csolutions {
			failed, err := v.checkSolution(pkg, profile, solution)
			if err != nil {
				return false, err
			}
			if !failed {
				satisfied = true
				break
			}
			for _, atom := range solution {
				key := atom.Key()
				if !failureSeen.has(key) {
					failureSeen.add(key)
					failures = append(failures, key)
				}
			}
		}
		if satisfied {
			continue
		}
		if err := v.report(types.Finding{
			Kind:     types.FindingNonsolvableDeps,
			Category: pkg.Category,
			Package:  pkg.Name,
			Version:  pkg.Version,
			Attr:     attr,
			Keyword:  profile.Key,
			Profile:  profile.Name,
			Atoms:    failures,
		}); err != nil {
			return false, err
		}
	}
	return false, nil
}

// checkSolution classifies every atom of one solution under one
// profile. Atoms already proven insoluble do not end the walk early:
// the remaining atoms still get classified so the report names every
// failing atom. Cache updates are monotone; an atom joins soluble or
// insoluble exactly once per run.
func (v *VisibilityCheck) checkSolution(pkg types.Package, profile *Profile, solution []types.Atom) (bool, error) {
	failed := false
	for _, atom := range solution {
		key := atom.Key()
		if profile.soluble.Contains(key) || profile.ProvidesMatch(atom) {
			continue
		}
		if profile.insoluble.Contains(key) {
			failed = true
			continue
		}
		matches, err := v.queryCache.GetOrCompute(atom)
		if err != nil {
			return false, err
		}
		visible := false
		for _, candidate := range matches {
			if !v.useDepsSatisfiable(atom, pkg, profile, candidate) {
				continue
			}
			if profile.Visible(candidate) {
				visible = true
				break
			}
		}
		if visible {
			profile.soluble.Add(key)
		} else {
			profile.insoluble.Add(key)
			failed = true
		}
	}
	return failed, nil
}

// useDepsSatisfiable reports whether the candidate can be configured to
// meet the atom's USE requirements under the profile. Conditional
// requirements resolve against the requesting package's forced flags; a
// required-on flag must be declared by the candidate and not masked, a
// required-off flag must not be forced.
func (v *VisibilityCheck) useDepsSatisfiable(atom types.Atom, requester types.Package, profile *Profile, candidate types.Package) bool {
	if len(atom.Use) == 0 {
		return true
	}
	requesterForced := profile.ForcedUse(requester)
	candidateIUse := candidate.IUseSet()
	candidateMasked := profile.MaskedUse(candidate)
	candidateForced := profile.ForcedUse(candidate)
	for _, dep := range atom.Use {
		flag := shared.StripUseDefault(dep.Flag)
		wantEnabled := !dep.Negate
		if dep.Conditional {
			condition := requesterForced.Has(flag)
			if dep.Negate {
				condition = !condition
			}
			if !condition {
				continue
			}
			wantEnabled = !dep.Negate
		}
		if wantEnabled {
			if !candidateIUse.Has(flag) {
				if dep.Default != "+" {
					return false
				}
				continue
			}
			if candidateMasked.Has(flag) {
				return false
			}
		} else {
			if candidateForced.Has(flag) {
				return false
			}
		}
	}
	return true
}

func (v *VisibilityCheck) report(finding types.Finding) error {
	return v.sink.Report(finding)
}
