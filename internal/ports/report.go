package ports

import "keywordscan/internal/types"

// ReportSinkPort is an append-only consumer of scan findings.
type ReportSinkPort interface {
	Report(finding types.Finding) error
	Close() error
}
