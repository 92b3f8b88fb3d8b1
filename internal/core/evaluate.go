package core

import "keywordscan/internal/types"

// EvaluatedDepSet pairs one concretely evaluated expression with the
// profiles whose flag state produced it.
type EvaluatedDepSet struct {
	DepSet   *types.DepNode
	Profiles []*Profile
}

// Collapser memoizes depset evaluation per (package, attribute) and
// profile identification per package. Both memos are cleared together
// on the run's cadence boundaries.
type Collapser struct {
	profiles    *ProfileIndex
	depsets     map[string][]EvaluatedDepSet
	pkgProfiles map[string][][]*Profile
}

func NewCollapser(profiles *ProfileIndex) *Collapser {
	return &Collapser{
		profiles:    profiles,
		depsets:     map[string][]EvaluatedDepSet{},
		pkgProfiles: map[string][][]*Profile{},
	}
}

// CollapseEvaluateDepset reduces the raw expression once per distinct
// flag state across the package's applicable profile groups. Repeated
// calls for the same package and attribute return the cached result
// until the next Reset.
func (c *Collapser) CollapseEvaluateDepset(pkg types.Package, attr types.DepAttr, raw *types.DepNode) []EvaluatedDepSet {
	key := pkg.Key() + "\x00" + string(attr)
	if cached, ok := c.depsets[key]; ok {
		return cached
	}
	evaluated := c.identifyCommonDepsets(pkg, raw)
	c.depsets[key] = evaluated
	return evaluated
}

func (c *Collapser) identifyCommonDepsets(pkg types.Package, raw *types.DepNode) []EvaluatedDepSet {
	groups, ok := c.pkgProfiles[pkg.Key()]
	if !ok {
		groups = c.profiles.IdentifyProfiles(pkg)
		c.pkgProfiles[pkg.Key()] = groups
	}

	known := KnownConditionals(raw)

	// bucket profile groups by resulting flag state; group membership
	// guarantees identical flag functions, so the first profile speaks
	// for the whole group
	var order []string
	states := map[string]types.FlagState{}
	buckets := map[string][]*Profile{}
	for _, group := range groups {
		state := group[0].IdentifyUse(pkg, known)
		fp := state.Fingerprint()
		if _, ok := buckets[fp]; !ok {
			order = append(order, fp)
			states[fp] = state
		}
		buckets[fp] = append(buckets[fp], group...)
	}

	out := make([]EvaluatedDepSet, 0, len(order))
	for _, fp := range order {
		out = append(out, EvaluatedDepSet{
			DepSet:   EvaluateDepSet(raw, states[fp]),
			Profiles: buckets[fp],
		})
	}
	return out
}

// Reset atomically clears the depset and profile memos.
func (c *Collapser) Reset() {
	c.depsets = map[string][]EvaluatedDepSet{}
	c.pkgProfiles = map[string][][]*Profile{}
}
