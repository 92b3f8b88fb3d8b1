package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Validate loads the repository index and builds the profile model
// without scanning, surfacing configuration errors early.
func (s Service) Validate(_ context.Context, req ValidateRequest) (ValidateResult, error) {
	repoIndex := strings.TrimSpace(req.RepoIndex)
	if repoIndex == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository index file is required")
	}
	profilesDir := strings.TrimSpace(req.ProfilesDir)
	if profilesDir == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("profiles directory is required")
	}

	profiles, err := s.buildProfiles(profilesDir, req.Arches, true)
	if err != nil {
		return ValidateResult{}, err
	}
	store := s.StoreOpener(repoIndex)
	packages, err := store.Packages()
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		Packages:      len(packages),
		ProfilesBuilt: profiles.Count(),
	}, nil
}
