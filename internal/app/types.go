package app

import "keywordscan/internal/types"

type ScanRequest struct {
	RepoIndex      string
	ProfilesDir    string
	Arches         []string
	Cadence        string
	ScanDeprecated bool
	Output         string
}

type ScanResult struct {
	PackagesScanned int
	ProfilesBuilt   int
	Findings        map[types.FindingKind]int
	FindingsTotal   int
}

type ValidateRequest struct {
	RepoIndex   string
	ProfilesDir string
	Arches      []string
}

type ValidateResult struct {
	Packages      int
	ProfilesBuilt int
}

type ProfilesRequest struct {
	ProfilesDir    string
	Arches         []string
	ScanDeprecated bool
}

type ProfileInfo struct {
	Key        string
	Name       string
	Arch       string
	Deprecated bool
	Group      int
}

type ProfilesResult struct {
	Profiles []ProfileInfo
}
