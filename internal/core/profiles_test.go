package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"keywordscan/internal/types"
)

func testRawProfile(name string, arch string) types.RawProfile {
	return types.RawProfile{Name: name, Arch: arch}
}

func testPackage(category string, name string, version string, keywords ...string) types.Package {
	return types.Package{
		Category: category,
		Name:     name,
		Version:  version,
		Keywords: keywords,
	}
}

func TestBuildProfilesStableAndUnstableVariants(t *testing.T) {
	raw := []types.RawProfile{testRawProfile("default/linux/amd64", "amd64")}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64", "arm64"}, false, NewMatcher())
	require.NoError(t, err)

	require.Len(t, ix.ProfilesFor("amd64"), 1)
	require.Len(t, ix.ProfilesFor("~amd64"), 1)

	stable := ix.ProfilesFor("amd64")[0]
	unstable := ix.ProfilesFor("~amd64")[0]

	pkg := testPackage("dev-libs", "foo", "1.0", "~amd64")
	require.False(t, stable.Visible(pkg), "stable profile must reject unstable-only keywords")
	require.True(t, unstable.Visible(pkg))

	stablePkg := testPackage("dev-libs", "foo", "1.0", "amd64")
	require.True(t, stable.Visible(stablePkg))
	require.True(t, unstable.Visible(stablePkg), "stable keywords satisfy the unstable filter too")
}

func TestBuildProfilesMasksForeignArchFlags(t *testing.T) {
	raw := []types.RawProfile{testRawProfile("default/linux/amd64", "amd64")}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64", "arm64", "x86"}, false, NewMatcher())
	require.NoError(t, err)

	profile := ix.ProfilesFor("amd64")[0]
	pkg := testPackage("dev-libs", "foo", "1.0", "amd64")
	masked := profile.MaskedUse(pkg)
	require.True(t, masked.Has("arm64"))
	require.True(t, masked.Has("x86"))
	require.False(t, masked.Has("amd64"))
	require.True(t, profile.ForcedUse(pkg).Has("amd64"), "own arch flag is forced on")
}

func TestBuildProfilesMissingArchIsFatal(t *testing.T) {
	raw := []types.RawProfile{testRawProfile("broken/profile", "")}
	_, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken/profile")
}

func TestBuildProfilesArchWithoutUsableProfilesIsFatal(t *testing.T) {
	raw := []types.RawProfile{
		testRawProfile("default/linux/amd64", "amd64"),
		{Name: "default/linux/arm64", Arch: "arm64", Deprecated: true},
	}
	_, err := BuildProfiles(raw, []string{"amd64", "arm64"}, []string{"amd64", "arm64"}, false, NewMatcher())
	require.Error(t, err)
	require.Contains(t, err.Error(), "arm64")

	// enabling deprecated profiles makes the arch usable again
	_, err = BuildProfiles(raw, []string{"amd64", "arm64"}, []string{"amd64", "arm64"}, true, NewMatcher())
	require.NoError(t, err)
}

func TestGroupingByFlagData(t *testing.T) {
	raw := []types.RawProfile{
		{Name: "default/linux/amd64", Arch: "amd64", MaskedUse: []string{"doc"}},
		{Name: "default/linux/amd64/desktop", Arch: "amd64", MaskedUse: []string{"doc"}},
		{Name: "default/linux/amd64/server", Arch: "amd64", MaskedUse: []string{"gui"}},
	}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.NoError(t, err)

	groups := ix.GroupsFor("amd64")
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2, "identical flag data must share a group")
	require.Len(t, groups[1], 1)
}

func TestGroupingIdempotence(t *testing.T) {
	// two profiles with structurally identical flag data must resolve
	// identical flag states for every package
	raw := []types.RawProfile{
		{Name: "default/linux/amd64", Arch: "amd64", MaskedUse: []string{"doc"}, ForcedUse: []string{"ssl"}},
		{Name: "default/linux/amd64/desktop", Arch: "amd64", MaskedUse: []string{"doc"}, ForcedUse: []string{"ssl"}},
	}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.NoError(t, err)

	group := ix.GroupsFor("amd64")[0]
	require.Len(t, group, 2)

	pkg := testPackage("dev-libs", "foo", "1.0", "amd64")
	known := types.NewFlagSet("ssl", "doc", "gui")
	first := group[0].IdentifyUse(pkg, known)
	second := group[1].IdentifyUse(pkg, known)
	if diff := cmp.Diff(first.Fingerprint(), second.Fingerprint()); diff != "" {
		t.Fatalf("grouped profiles disagree on flag state (-want +got):\n%s", diff)
	}
}

func TestIdentifyUseMaskWinsOverForce(t *testing.T) {
	raw := []types.RawProfile{
		{Name: "default/linux/amd64", Arch: "amd64", MaskedUse: []string{"ssl"}, ForcedUse: []string{"ssl"}},
	}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.NoError(t, err)

	profile := ix.ProfilesFor("amd64")[0]
	pkg := testPackage("dev-libs", "foo", "1.0", "amd64")
	state := profile.IdentifyUse(pkg, types.NewFlagSet("ssl"))
	require.True(t, state.Immutable.Has("ssl"))
	require.False(t, state.Enabled.Has("ssl"), "a flag both masked and forced stays disabled")
}

func TestStableFlagDataAdditions(t *testing.T) {
	raw := []types.RawProfile{
		{
			Name:            "default/linux/amd64",
			Arch:            "amd64",
			StableMaskedUse: []string{"experimental"},
		},
	}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.NoError(t, err)

	pkg := testPackage("dev-libs", "foo", "1.0", "amd64")
	stable := ix.ProfilesFor("amd64")[0]
	unstable := ix.ProfilesFor("~amd64")[0]
	require.True(t, stable.MaskedUse(pkg).Has("experimental"))
	require.False(t, unstable.MaskedUse(pkg).Has("experimental"))
}

func TestDirectionalCacheSharing(t *testing.T) {
	raw := []types.RawProfile{testRawProfile("default/linux/amd64", "amd64")}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.NoError(t, err)

	stable := ix.ProfilesFor("amd64")[0]
	unstable := ix.ProfilesFor("~amd64")[0]

	// stable solubility implies unstable solubility
	stable.soluble.Add("dev-libs/a")
	require.True(t, unstable.soluble.Contains("dev-libs/a"))

	// unstable insolubility implies stable insolubility
	unstable.insoluble.Add("dev-libs/b")
	require.True(t, stable.insoluble.Contains("dev-libs/b"))

	// neither holds in the reverse direction
	unstable.soluble.Add("dev-libs/c")
	require.False(t, stable.soluble.Contains("dev-libs/c"))
	stable.insoluble.Add("dev-libs/d")
	require.False(t, unstable.insoluble.Contains("dev-libs/d"))

	// atoms with zero repository matches are insoluble everywhere
	ix.GlobalInsolubleAdd("dev-libs/e")
	require.True(t, stable.insoluble.Contains("dev-libs/e"))
	require.True(t, unstable.insoluble.Contains("dev-libs/e"))
}

func TestIdentifyProfilesFiltersByVisibility(t *testing.T) {
	maskAtom := types.Atom{Category: "dev-libs", Package: "foo"}
	raw := []types.RawProfile{
		{Name: "default/linux/amd64", Arch: "amd64"},
		{Name: "default/linux/amd64/hardened", Arch: "amd64", PackageMasks: []types.Atom{maskAtom}},
		{Name: "default/linux/arm64", Arch: "arm64"},
	}
	ix, err := BuildProfiles(raw, nil, []string{"amd64", "arm64"}, false, NewMatcher())
	require.NoError(t, err)

	pkg := testPackage("dev-libs", "foo", "1.0", "amd64")
	groups := ix.IdentifyProfiles(pkg)
	require.NotEmpty(t, groups)
	for _, group := range groups {
		for _, profile := range group {
			require.NotEqual(t, "default/linux/amd64/hardened", profile.Name,
				"masked profile must be filtered out")
			require.Equal(t, "amd64", profile.Arch,
				"arm64 profiles must not apply to an amd64-only package")
		}
	}

	ghost := testPackage("dev-libs", "ghost", "1.0", "-amd64")
	require.Empty(t, ix.IdentifyProfiles(ghost))
}

func TestPackageUnmaskRestoresVisibility(t *testing.T) {
	maskAtom := types.Atom{Category: "dev-libs", Package: "foo"}
	raw := []types.RawProfile{
		{
			Name:           "default/linux/amd64",
			Arch:           "amd64",
			PackageMasks:   []types.Atom{maskAtom},
			PackageUnmasks: []types.Atom{{Category: "dev-libs", Package: "foo", Op: types.VersionOpGte, Version: "2.0"}},
		},
	}
	ix, err := BuildProfiles(raw, []string{"amd64"}, []string{"amd64"}, false, NewMatcher())
	require.NoError(t, err)

	profile := ix.ProfilesFor("amd64")[0]
	require.False(t, profile.Visible(testPackage("dev-libs", "foo", "1.0", "amd64")))
	require.True(t, profile.Visible(testPackage("dev-libs", "foo", "2.1", "amd64")))
}
