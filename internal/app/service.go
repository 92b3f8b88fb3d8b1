package app

import (
	"time"

	"keywordscan/internal/adapters"
	"keywordscan/internal/ports"
)

type Service struct {
	ProfileSource ports.ProfileSourcePort
	StoreOpener   func(path string) ports.MetadataStorePort
	SinkOpener    func(output string) (ports.ReportSinkPort, error)
	Clock         func() time.Time
}

func NewService() Service {
	return Service{
		ProfileSource: adapters.NewProfileDirAdapter(),
		StoreOpener: func(path string) ports.MetadataStorePort {
			return adapters.NewRepoFileAdapter(path)
		},
		SinkOpener: func(output string) (ports.ReportSinkPort, error) {
			if output == "" {
				return adapters.NewReportConsoleAdapter(), nil
			}
			return adapters.NewReportFileAdapter(output)
		},
		Clock: time.Now,
	}
}
