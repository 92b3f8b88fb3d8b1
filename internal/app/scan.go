package app

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"keywordscan/internal/core"
	"keywordscan/internal/ports"
	"keywordscan/internal/types"
)

// countingSink wraps the configured report sink and tallies findings by
// kind for the scan summary.
type countingSink struct {
	inner  ports.ReportSinkPort
	counts map[types.FindingKind]int
	total  int
}

func newCountingSink(inner ports.ReportSinkPort) *countingSink {
	return &countingSink{inner: inner, counts: map[types.FindingKind]int{}}
}

func (s *countingSink) Report(finding types.Finding) error {
	s.counts[finding.Kind]++
	s.total++
	return s.inner.Report(finding)
}

func (s *countingSink) Close() error {
	return s.inner.Close()
}

// Scan runs the full repository check: build the profile model once,
// then feed every package through the visibility engine, clearing the
// query and depset caches on the requested cadence.
func (s Service) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	repoIndex := strings.TrimSpace(req.RepoIndex)
	if repoIndex == "" {
		return ScanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository index file is required")
	}
	profilesDir := strings.TrimSpace(req.ProfilesDir)
	if profilesDir == "" {
		return ScanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("profiles directory is required")
	}
	cadence := types.CadencePackage
	if req.Cadence != "" {
		parsed, ok := types.ParseCadence(req.Cadence)
		if !ok {
			return ScanResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("cache reset cadence must be version, package, or category")
		}
		cadence = parsed
	}

	profiles, err := s.buildProfiles(profilesDir, req.Arches, req.ScanDeprecated)
	if err != nil {
		return ScanResult{}, err
	}
	assert.NotEmpty(ctx, strings.Join(profiles.Keys(), " "), "profile model must expose at least one arch key")

	store := s.StoreOpener(repoIndex)
	packages, err := store.Packages()
	if err != nil {
		return ScanResult{}, err
	}

	sink, err := s.SinkOpener(strings.TrimSpace(req.Output))
	if err != nil {
		return ScanResult{}, err
	}
	counting := newCountingSink(sink)

	queryCache := core.NewQueryCache(store)
	collapser := core.NewCollapser(profiles)
	check := core.NewVisibilityCheck(profiles, queryCache, collapser, counting)

	started := s.Clock()
	var lastBoundary string
	for i, pkg := range packages {
		boundary := cadenceBoundary(cadence, pkg)
		if i > 0 && boundary != lastBoundary {
			log.Debug().
				Str("boundary", boundary).
				Int("cached_queries", queryCache.Len()).
				Msg("cadence boundary, clearing caches")
			queryCache.Reset()
			collapser.Reset()
		}
		lastBoundary = boundary

		if err := check.Feed(pkg); err != nil {
			_ = counting.Close()
			return ScanResult{}, err
		}
	}
	if err := counting.Close(); err != nil {
		return ScanResult{}, err
	}

	log.Info().
		Int("packages", len(packages)).
		Int("profiles", profiles.Count()).
		Int("findings", counting.total).
		Dur("elapsed", s.Clock().Sub(started)).
		Msg("scan complete")

	return ScanResult{
		PackagesScanned: len(packages),
		ProfilesBuilt:   profiles.Count(),
		Findings:        counting.counts,
		FindingsTotal:   counting.total,
	}, nil
}

func cadenceBoundary(cadence types.Cadence, pkg types.Package) string {
	switch cadence {
	case types.CadenceCategory:
		return pkg.Category
	case types.CadenceVersion:
		return pkg.Key()
	default:
		return pkg.KeyName()
	}
}

func (s Service) buildProfiles(profilesDir string, arches []string, scanDeprecated bool) (*core.ProfileIndex, error) {
	knownArches, err := s.ProfileSource.KnownArches(profilesDir)
	if err != nil {
		return nil, err
	}
	rawProfiles, err := s.ProfileSource.LoadProfiles(profilesDir)
	if err != nil {
		return nil, err
	}
	return core.BuildProfiles(rawProfiles, arches, knownArches, scanDeprecated, core.NewMatcher())
}
