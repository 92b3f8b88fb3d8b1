package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"keywordscan/internal/ports"
	"keywordscan/internal/types"
)

// QueryCache memoizes repository match queries per normalized atom.
// Atoms are keyed with USE requirements stripped since those never
// change the match set. Results are fully materialized because profiles
// re-scan the same candidate list repeatedly. The cache is cleared on
// the run's cadence boundaries and is not safe to share across
// concurrent shards.
type QueryCache struct {
	store   ports.MetadataStorePort
	entries map[string][]types.Package
}

func NewQueryCache(store ports.MetadataStorePort) *QueryCache {
	return &QueryCache{
		store:   store,
		entries: map[string][]types.Package{},
	}
}

// Get returns the cached match set for the atom, if any.
func (c *QueryCache) Get(atom types.Atom) ([]types.Package, bool) {
	matches, ok := c.entries[atom.StripUse().Key()]
	return matches, ok
}

// Put stores a match set under the atom's normalized key.
func (c *QueryCache) Put(atom types.Atom, matches []types.Package) {
	c.entries[atom.StripUse().Key()] = matches
}

// GetOrCompute returns the match set for the atom, querying the store
// exactly once per atom per cache lifetime. A store failure is fatal
// for the run since cache correctness depends on authoritative queries.
func (c *QueryCache) GetOrCompute(atom types.Atom) ([]types.Package, error) {
	key := atom.StripUse().Key()
	if matches, ok := c.entries[key]; ok {
		return matches, nil
	}
	matches, err := c.store.Match(atom.StripUse())
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("repository query failed for atom " + key).
			WithCause(err)
	}
	c.entries[key] = matches
	return matches, nil
}

// Len returns the number of materialized entries.
func (c *QueryCache) Len() int {
	return len(c.entries)
}

// Reset drops every materialized entry.
func (c *QueryCache) Reset() {
	c.entries = map[string][]types.Package{}
}
