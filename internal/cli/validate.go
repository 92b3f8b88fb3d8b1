package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keywordscan/internal/app"
)

type validateOptions struct {
	RepoIndex   string
	ProfilesDir string
	Arches      []string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the repository index and profiles without scanning",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.RepoIndex, "repo-index", "", "Repository index file")
	cmd.Flags().StringVar(&opts.ProfilesDir, "profiles-dir", "", "Profiles directory")
	cmd.Flags().StringSliceVarP(&opts.Arches, "arch", "a", nil, "Architectures to check (default: all known)")
	_ = viper.BindPFlag("repo_index", cmd.Flags().Lookup("repo-index"))
	_ = viper.BindPFlag("profiles_dir", cmd.Flags().Lookup("profiles-dir"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := app.NewService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		RepoIndex:   resolveString(cmd, opts.RepoIndex, "repo_index", "repo-index"),
		ProfilesDir: resolveString(cmd, opts.ProfilesDir, "profiles_dir", "profiles-dir"),
		Arches:      opts.Arches,
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %d packages, %d profiles\n", result.Packages, result.ProfilesBuilt)
	return nil
}
