package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keywordscan/internal/app"
)

type profilesOptions struct {
	ProfilesDir    string
	Arches         []string
	ScanDeprecated bool
}

func newProfilesCommand() *cobra.Command {
	opts := profilesOptions{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the built profile model and its flag-data groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfiles(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProfilesDir, "profiles-dir", "", "Profiles directory")
	cmd.Flags().StringSliceVarP(&opts.Arches, "arch", "a", nil, "Architectures to check (default: all known)")
	cmd.Flags().BoolVar(&opts.ScanDeprecated, "scan-deprecated-profiles", false, "Include deprecated profiles")
	_ = viper.BindPFlag("profiles_dir", cmd.Flags().Lookup("profiles-dir"))
	return cmd
}

func runProfiles(ctx context.Context, cmd *cobra.Command, opts profilesOptions) error {
	service := app.NewService()
	result, err := service.Profiles(ctx, app.ProfilesRequest{
		ProfilesDir:    resolveString(cmd, opts.ProfilesDir, "profiles_dir", "profiles-dir"),
		Arches:         opts.Arches,
		ScanDeprecated: opts.ScanDeprecated,
	})
	if err != nil {
		return err
	}
	for _, profile := range result.Profiles {
		marker := ""
		if profile.Deprecated {
			marker = " (deprecated)"
		}
		fmt.Printf("%s\tgroup=%d\t%s%s\n", profile.Key, profile.Group, profile.Name, marker)
	}
	return nil
}
