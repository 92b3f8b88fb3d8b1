package ports

import "keywordscan/internal/types"

// MetadataStorePort is the repository-backed package metadata store.
// Match answers constraint queries; Packages yields the full scan
// stream ordered by category, name, then ascending version.
type MetadataStorePort interface {
	Match(atom types.Atom) ([]types.Package, error)
	Packages() ([]types.Package, error)
}
