package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"keywordscan/internal/types"
)

func writeIndex(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRepoFileAdapterPackagesOrdered(t *testing.T) {
	path := writeIndex(t, `
packages:
  - category: dev-libs
    name: b
    version: "1.0"
  - category: app-misc
    name: z
    version: "2.0"
  - category: dev-libs
    name: a
    version: "1.10"
  - category: dev-libs
    name: a
    version: "1.9"
`)
	adapter := NewRepoFileAdapter(path)

	packages, err := adapter.Packages()
	require.NoError(t, err)

	var keys []string
	for _, pkg := range packages {
		keys = append(keys, pkg.Key())
	}
	want := []string{
		"app-misc/z-2.0",
		"dev-libs/a-1.9",
		"dev-libs/a-1.10",
		"dev-libs/b-1.0",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("unexpected stream order (-want +got):\n%s", diff)
	}
}

func TestRepoFileAdapterMatch(t *testing.T) {
	path := writeIndex(t, `
packages:
  - category: dev-libs
    name: a
    version: "1.0"
  - category: dev-libs
    name: a
    version: "2.0"
  - category: dev-libs
    name: b
    version: "1.0"
`)
	adapter := NewRepoFileAdapter(path)

	matches, err := adapter.Match(types.Atom{
		Category: "dev-libs",
		Package:  "a",
		Op:       types.VersionOpGte,
		Version:  "2.0",
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "dev-libs/a-2.0", matches[0].Key())
}

func TestRepoFileAdapterParsesDepExpressions(t *testing.T) {
	path := writeIndex(t, `
packages:
  - category: app-misc
    name: p
    version: "1.0"
    iuse: [ssl]
    depend:
      - cond:
          flag: ssl
          of:
            - any:
                - atom: {category: dev-libs, package: openssl, slot: "3"}
                - atom: {category: dev-libs, package: libressl, blocks: true}
`)
	adapter := NewRepoFileAdapter(path)

	packages, err := adapter.Packages()
	require.NoError(t, err)
	require.Len(t, packages, 1)

	depend := packages[0].Depend
	require.NotNil(t, depend)
	require.Equal(t, types.DepKindAllOf, depend.Kind)
	require.Len(t, depend.Children, 1)

	cond := depend.Children[0]
	require.Equal(t, types.DepKindConditional, cond.Kind)
	require.Equal(t, "ssl", cond.Flag)
	require.False(t, cond.Negate)

	anyOf := cond.Children[0]
	require.Equal(t, types.DepKindAnyOf, anyOf.Kind)
	require.Equal(t, "dev-libs/openssl:3", anyOf.Children[0].Atom.Key())
	require.Equal(t, "!dev-libs/libressl", anyOf.Children[1].Atom.Key())
}

func TestRepoFileAdapterErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		missing  bool
		wantCode errbuilder.ErrCode
	}{
		{
			name:     "missing file",
			missing:  true,
			wantCode: errbuilder.CodeNotFound,
		},
		{
			name:     "broken yaml",
			content:  "packages: [",
			wantCode: errbuilder.CodeInvalidArgument,
		},
		{
			name: "entry without version",
			content: `
packages:
  - category: dev-libs
    name: a
`,
			wantCode: errbuilder.CodeInvalidArgument,
		},
		{
			name: "node with two kinds",
			content: `
packages:
  - category: dev-libs
    name: a
    version: "1.0"
    depend:
      - atom: {category: dev-libs, package: b}
        any:
          - atom: {category: dev-libs, package: c}
`,
			wantCode: errbuilder.CodeInvalidArgument,
		},
		{
			name: "operator without version",
			content: `
packages:
  - category: dev-libs
    name: a
    version: "1.0"
    depend:
      - atom: {category: dev-libs, package: b, op: ">="}
`,
			wantCode: errbuilder.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.yaml")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}
			adapter := NewRepoFileAdapter(path)

			_, err := adapter.Packages()
			require.Error(t, err)
			if diff := cmp.Diff(tt.wantCode, errbuilder.CodeOf(err)); diff != "" {
				t.Fatalf("unexpected error code (-want +got):\n%s", diff)
			}
		})
	}
}
