package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Profiles builds the profile model and returns its layout, including
// the flag-data group each profile landed in. Debugging surface for
// profile directory authors.
func (s Service) Profiles(_ context.Context, req ProfilesRequest) (ProfilesResult, error) {
	profilesDir := strings.TrimSpace(req.ProfilesDir)
	if profilesDir == "" {
		return ProfilesResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("profiles directory is required")
	}
	index, err := s.buildProfiles(profilesDir, req.Arches, req.ScanDeprecated)
	if err != nil {
		return ProfilesResult{}, err
	}
	var result ProfilesResult
	for _, key := range index.Keys() {
		for groupID, group := range index.GroupsFor(key) {
			for _, profile := range group {
				result.Profiles = append(result.Profiles, ProfileInfo{
					Key:        profile.Key,
					Name:       profile.Name,
					Arch:       profile.Arch,
					Deprecated: profile.Deprecated,
					Group:      groupID,
				})
			}
		}
	}
	return result, nil
}
