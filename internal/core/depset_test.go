package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"keywordscan/internal/types"
)

func atom(category string, name string) types.Atom {
	return types.Atom{Category: category, Package: name}
}

func TestEvaluateDepSetPinnedFlags(t *testing.T) {
	// foo? ( A ) !foo? ( B )
	raw := types.NewAllOf(
		types.NewConditional("foo", false, types.NewAtomNode(atom("dev-libs", "a"))),
		types.NewConditional("foo", true, types.NewAtomNode(atom("dev-libs", "b"))),
	)

	state := types.FlagState{
		Immutable: types.NewFlagSet("foo"),
		Enabled:   types.NewFlagSet("foo"),
	}
	evaluated := EvaluateDepSet(raw, state)
	atoms, err := FlattenAtoms(evaluated)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"dev-libs/a"}, atomKeys(atoms)); diff != "" {
		t.Fatalf("unexpected atoms with foo forced on (-want +got):\n%s", diff)
	}

	state = types.FlagState{
		Immutable: types.NewFlagSet("foo"),
		Enabled:   types.NewFlagSet(),
	}
	evaluated = EvaluateDepSet(raw, state)
	atoms, err = FlattenAtoms(evaluated)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"dev-libs/b"}, atomKeys(atoms)); diff != "" {
		t.Fatalf("unexpected atoms with foo masked off (-want +got):\n%s", diff)
	}
}

func TestEvaluateDepSetMutableFlagsKeepBothBranches(t *testing.T) {
	// a flag the profile neither forces nor masks stays toggleable, so
	// both branches remain reachable
	raw := types.NewAllOf(
		types.NewConditional("foo", false, types.NewAtomNode(atom("dev-libs", "a"))),
		types.NewConditional("foo", true, types.NewAtomNode(atom("dev-libs", "b"))),
	)
	state := types.FlagState{Immutable: types.NewFlagSet(), Enabled: types.NewFlagSet()}

	evaluated := EvaluateDepSet(raw, state)
	atoms, err := FlattenAtoms(evaluated)
	require.NoError(t, err)

	// identical to hoisting every conditional payload by hand
	stripped := types.NewAllOf(
		types.NewAtomNode(atom("dev-libs", "a")),
		types.NewAtomNode(atom("dev-libs", "b")),
	)
	expected, err := FlattenAtoms(stripped)
	require.NoError(t, err)
	if diff := cmp.Diff(atomKeys(expected), atomKeys(atoms)); diff != "" {
		t.Fatalf("empty flag state must hoist all conditional payloads (-want +got):\n%s", diff)
	}
}

func TestEvaluateDepSetStripsUseDefaultSuffix(t *testing.T) {
	raw := types.NewAllOf(
		types.NewConditional("ssl(+)", false, types.NewAtomNode(atom("dev-libs", "openssl"))),
	)
	state := types.FlagState{
		Immutable: types.NewFlagSet("ssl"),
		Enabled:   types.NewFlagSet(),
	}
	evaluated := EvaluateDepSet(raw, state)
	atoms, err := FlattenAtoms(evaluated)
	require.NoError(t, err)
	require.Empty(t, atoms, "masked-off ssl branch must be dropped despite default suffix")

	known := KnownConditionals(raw)
	require.True(t, known.Has("ssl"))
	require.False(t, known.Has("ssl(+)"))
}

func TestSolutionsDeclarationOrder(t *testing.T) {
	// C && || ( A B )
	depset := types.NewAllOf(
		types.NewAtomNode(atom("dev-libs", "c")),
		types.NewAnyOf(
			types.NewAtomNode(atom("dev-libs", "a")),
			types.NewAtomNode(atom("dev-libs", "b")),
		),
	)
	solutions, err := Solutions(depset)
	require.NoError(t, err)

	var got [][]string
	for _, solution := range solutions {
		got = append(got, atomKeys(solution))
	}
	want := [][]string{
		{"dev-libs/c", "dev-libs/a"},
		{"dev-libs/c", "dev-libs/b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected solution expansion (-want +got):\n%s", diff)
	}
}

func TestSolutionsEmptyExpression(t *testing.T) {
	solutions, err := Solutions(types.NewAllOf())
	require.NoError(t, err)
	require.Len(t, solutions, 1)
	require.Empty(t, solutions[0])
}

func TestFlattenAtomsComplexityLimit(t *testing.T) {
	overloaded := atom("dev-libs", "huge")
	for i := 0; i < maxTransitiveUseDeps+1; i++ {
		overloaded.Use = append(overloaded.Use, types.UseDep{
			Flag:        string(rune('a' + i)),
			Conditional: true,
		})
	}
	_, err := FlattenAtoms(types.NewAllOf(types.NewAtomNode(overloaded)))
	require.ErrorIs(t, err, errTooComplex)
}

func TestSolutionsExpansionLimit(t *testing.T) {
	// stacked any-of pairs double the solution count each time
	depset := types.NewAllOf()
	for i := 0; i < 16; i++ {
		depset.Children = append(depset.Children, types.NewAnyOf(
			types.NewAtomNode(atom("dev-libs", "a")),
			types.NewAtomNode(atom("dev-libs", "b")),
		))
	}
	_, err := Solutions(depset)
	require.ErrorIs(t, err, errTooComplex)
}

func atomKeys(atoms []types.Atom) []string {
	out := make([]string, 0, len(atoms))
	for _, a := range atoms {
		out = append(out, a.Key())
	}
	return out
}
