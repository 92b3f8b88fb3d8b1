package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keywordscan/internal/app"
	"keywordscan/internal/types"
)

type scanOptions struct {
	RepoIndex      string
	ProfilesDir    string
	Arches         []string
	Cadence        string
	ScanDeprecated bool
	Output         string
}

func newScanCommand() *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the repository for unsatisfiable dependencies per profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.RepoIndex, "repo-index", "", "Repository index file")
	cmd.Flags().StringVar(&opts.ProfilesDir, "profiles-dir", "", "Profiles directory")
	cmd.Flags().StringSliceVarP(&opts.Arches, "arch", "a", nil, "Architectures to check (default: all known)")
	cmd.Flags().StringVar(&opts.Cadence, "reset-caching-per", "package", "Cache reset cadence (version, package, category)")
	cmd.Flags().BoolVar(&opts.ScanDeprecated, "scan-deprecated-profiles", false, "Include deprecated profiles in the scan")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Findings output file (JSON lines; default: console)")
	_ = viper.BindPFlag("repo_index", cmd.Flags().Lookup("repo-index"))
	_ = viper.BindPFlag("profiles_dir", cmd.Flags().Lookup("profiles-dir"))
	_ = viper.BindPFlag("arches", cmd.Flags().Lookup("arch"))
	_ = viper.BindPFlag("reset_caching_per", cmd.Flags().Lookup("reset-caching-per"))
	return cmd
}

func runScan(ctx context.Context, cmd *cobra.Command, opts scanOptions) error {
	service := app.NewService()
	result, err := service.Scan(ctx, app.ScanRequest{
		RepoIndex:      resolveString(cmd, opts.RepoIndex, "repo_index", "repo-index"),
		ProfilesDir:    resolveString(cmd, opts.ProfilesDir, "profiles_dir", "profiles-dir"),
		Arches:         resolveStrings(cmd, opts.Arches, "arches", "arch"),
		Cadence:        resolveString(cmd, opts.Cadence, "reset_caching_per", "reset-caching-per"),
		ScanDeprecated: opts.ScanDeprecated,
		Output:         opts.Output,
	})
	if err != nil {
		return err
	}
	fmt.Printf("scanned %d packages against %d profiles: %d findings\n",
		result.PackagesScanned, result.ProfilesBuilt, result.FindingsTotal)
	kinds := make([]string, 0, len(result.Findings))
	for kind := range result.Findings {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %s: %d\n", kind, result.Findings[types.FindingKind(kind)])
	}
	return nil
}
