package adapters

import (
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"keywordscan/internal/core"
	"keywordscan/internal/types"
)

// RepoFileAdapter is a metadata store backed by a YAML repository index.
// The whole index loads on first use; constraint queries scan the
// in-memory package list.
type RepoFileAdapter struct {
	path     string
	matcher  *core.Matcher
	packages []types.Package
	loaded   bool
}

func NewRepoFileAdapter(path string) *RepoFileAdapter {
	return &RepoFileAdapter{path: path, matcher: core.NewMatcher()}
}

type repoFileYAML struct {
	Packages []packageYAML `yaml:"packages"`
}

type packageYAML struct {
	Category string        `yaml:"category"`
	Name     string        `yaml:"name"`
	Version  string        `yaml:"version"`
	Slot     string        `yaml:"slot"`
	Keywords []string      `yaml:"keywords"`
	IUse     []string      `yaml:"iuse"`
	Eclasses []string      `yaml:"eclasses"`
	Depend   []depNodeYAML `yaml:"depend"`
	RDepend  []depNodeYAML `yaml:"rdepend"`
	PDepend  []depNodeYAML `yaml:"pdepend"`
}

func (a *RepoFileAdapter) load() error {
	if a.loaded {
		return nil
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("repository index not found").
			WithCause(err)
	}
	var raw repoFileYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse repository index yaml").
			WithCause(err)
	}
	packages := make([]types.Package, 0, len(raw.Packages))
	for _, entry := range raw.Packages {
		pkg, err := entry.toPackage()
		if err != nil {
			return err
		}
		packages = append(packages, pkg)
	}
	sort.SliceStable(packages, func(i, j int) bool {
		if packages[i].Category != packages[j].Category {
			return packages[i].Category < packages[j].Category
		}
		if packages[i].Name != packages[j].Name {
			return packages[i].Name < packages[j].Name
		}
		return a.matcher.CompareVersions(packages[i].Version, packages[j].Version) < 0
	})
	a.packages = packages
	a.loaded = true
	return nil
}

func (entry packageYAML) toPackage() (types.Package, error) {
	pkg := types.Package{
		Category: entry.Category,
		Name:     entry.Name,
		Version:  entry.Version,
		Slot:     entry.Slot,
		Keywords: entry.Keywords,
		IUse:     entry.IUse,
		Eclasses: entry.Eclasses,
	}
	if pkg.Category == "" || pkg.Name == "" || pkg.Version == "" {
		return types.Package{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package entry requires category, name, and version")
	}
	var err error
	if pkg.Depend, err = depNodesToTree(entry.Depend); err != nil {
		return types.Package{}, err
	}
	if pkg.RDepend, err = depNodesToTree(entry.RDepend); err != nil {
		return types.Package{}, err
	}
	if pkg.PDepend, err = depNodesToTree(entry.PDepend); err != nil {
		return types.Package{}, err
	}
	return pkg, nil
}

// Packages returns the full scan stream ordered by category, name, and
// ascending version.
func (a *RepoFileAdapter) Packages() ([]types.Package, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	return a.packages, nil
}

// Match returns every package version satisfying the atom, in stream
// order.
func (a *RepoFileAdapter) Match(atom types.Atom) ([]types.Package, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	var out []types.Package
	for _, pkg := range a.packages {
		if a.matcher.Matches(atom, pkg) {
			out = append(out, pkg)
		}
	}
	return out, nil
}
