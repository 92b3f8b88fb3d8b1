package adapters

import (
	"github.com/rs/zerolog/log"

	"keywordscan/internal/types"
)

// ReportConsoleAdapter writes findings as structured warn-level log
// events.
type ReportConsoleAdapter struct{}

func NewReportConsoleAdapter() ReportConsoleAdapter {
	return ReportConsoleAdapter{}
}

func (a ReportConsoleAdapter) Report(finding types.Finding) error {
	event := log.Warn().
		Str("kind", string(finding.Kind)).
		Str("pkg", finding.PkgKey())
	if finding.Attr != "" {
		event = event.Str("attr", string(finding.Attr))
	}
	if finding.Profile != "" {
		event = event.Str("profile", finding.Profile)
	}
	if finding.Keyword != "" {
		event = event.Str("keyword", finding.Keyword)
	}
	event.Msg(finding.ShortDesc())
	return nil
}

func (a ReportConsoleAdapter) Close() error {
	return nil
}
