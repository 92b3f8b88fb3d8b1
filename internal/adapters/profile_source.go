package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"keywordscan/internal/types"
)

// ProfileDirAdapter loads raw profile definitions from a profiles
// directory: an arch.list naming the known architectures and a
// profiles.yaml with one flattened entry per profile. Inheritance and
// mask chains are resolved before the files are written, so entries are
// flat.
type ProfileDirAdapter struct{}

func NewProfileDirAdapter() ProfileDirAdapter {
	return ProfileDirAdapter{}
}

type profileFileYAML struct {
	Profiles []rawProfileYAML `yaml:"profiles"`
}

type rawProfileYAML struct {
	Name            string             `yaml:"name"`
	Arch            string             `yaml:"arch"`
	Deprecated      bool               `yaml:"deprecated"`
	MaskedUse       []string           `yaml:"masked_use"`
	ForcedUse       []string           `yaml:"forced_use"`
	StableMaskedUse []string           `yaml:"stable_masked_use"`
	StableForcedUse []string           `yaml:"stable_forced_use"`
	PkgMaskedUse    []packageFlagsYAML `yaml:"pkg_masked_use"`
	PkgForcedUse    []packageFlagsYAML `yaml:"pkg_forced_use"`
	PackageMasks    []atomYAML         `yaml:"package_masks"`
	PackageUnmasks  []atomYAML         `yaml:"package_unmasks"`
	Provided        []atomYAML         `yaml:"provided"`
}

type packageFlagsYAML struct {
	Atom  atomYAML `yaml:"atom"`
	Flags []string `yaml:"flags"`
}

// KnownArches reads the directory's arch.list: one architecture per
// line, blank lines and #-comments ignored.
func (a ProfileDirAdapter) KnownArches(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "arch.list"))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("arch.list not found in profiles directory").
			WithCause(err)
	}
	var arches []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		arches = append(arches, line)
	}
	if len(arches) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("arch.list declares no architectures")
	}
	return arches, nil
}

// LoadProfiles reads and validates the directory's profiles.yaml.
func (a ProfileDirAdapter) LoadProfiles(dir string) ([]types.RawProfile, error) {
	path := filepath.Join(dir, "profiles.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("profiles.yaml not found in profiles directory").
			WithCause(err)
	}
	var raw profileFileYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse profiles yaml").
			WithCause(err)
	}
	profiles := make([]types.RawProfile, 0, len(raw.Profiles))
	for _, entry := range raw.Profiles {
		profile, err := entry.toRawProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (r rawProfileYAML) toRawProfile() (types.RawProfile, error) {
	if r.Name == "" {
		return types.RawProfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("profile entry requires a name")
	}
	profile := types.RawProfile{
		Name:            r.Name,
		Arch:            r.Arch,
		Deprecated:      r.Deprecated,
		MaskedUse:       r.MaskedUse,
		ForcedUse:       r.ForcedUse,
		StableMaskedUse: r.StableMaskedUse,
		StableForcedUse: r.StableForcedUse,
	}
	var err error
	if profile.PkgMaskedUse, err = toPackageFlags(r.PkgMaskedUse); err != nil {
		return types.RawProfile{}, err
	}
	if profile.PkgForcedUse, err = toPackageFlags(r.PkgForcedUse); err != nil {
		return types.RawProfile{}, err
	}
	if profile.PackageMasks, err = toAtoms(r.PackageMasks); err != nil {
		return types.RawProfile{}, err
	}
	if profile.PackageUnmasks, err = toAtoms(r.PackageUnmasks); err != nil {
		return types.RawProfile{}, err
	}
	if profile.Provided, err = toAtoms(r.Provided); err != nil {
		return types.RawProfile{}, err
	}
	return profile, nil
}

func toPackageFlags(entries []packageFlagsYAML) ([]types.PackageFlags, error) {
	var out []types.PackageFlags
	for _, entry := range entries {
		pattern, err := entry.Atom.toAtom()
		if err != nil {
			return nil, err
		}
		out = append(out, types.PackageFlags{Pattern: pattern, Flags: entry.Flags})
	}
	return out, nil
}

func toAtoms(entries []atomYAML) ([]types.Atom, error) {
	var out []types.Atom
	for _, entry := range entries {
		atom, err := entry.toAtom()
		if err != nil {
			return nil, err
		}
		out = append(out, atom)
	}
	return out, nil
}
