package ports

import "keywordscan/internal/types"

// ProfileSourcePort loads raw profile definitions from a profiles
// directory. Parent/mask chains are already flattened by the loader.
type ProfileSourcePort interface {
	LoadProfiles(dir string) ([]types.RawProfile, error)
	KnownArches(dir string) ([]string, error)
}
