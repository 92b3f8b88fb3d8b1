package types

// PackageFlags attaches extra masked or forced flags to the packages an
// atom pattern matches.
type PackageFlags struct {
	Pattern Atom
	Flags   []string
}

// RawProfile is one profile definition as produced by the profile
// directory loader, with parent/inheritance chains already flattened.
// Stable* lists are additions applied on top of the base lists when the
// profile is checked against stable keywords only.
type RawProfile struct {
	Name            string
	Arch            string
	Deprecated      bool
	MaskedUse       []string
	ForcedUse       []string
	StableMaskedUse []string
	StableForcedUse []string
	PkgMaskedUse    []PackageFlags
	PkgForcedUse    []PackageFlags
	PackageMasks    []Atom
	PackageUnmasks  []Atom
	Provided        []Atom
}
