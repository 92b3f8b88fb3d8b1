package adapters

import (
	"encoding/json"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"keywordscan/internal/types"
)

// ReportFileAdapter appends findings to a JSON-lines file, one finding
// per line.
type ReportFileAdapter struct {
	file    *os.File
	encoder *json.Encoder
}

func NewReportFileAdapter(path string) (*ReportFileAdapter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to open report output file").
			WithCause(err)
	}
	return &ReportFileAdapter{file: file, encoder: json.NewEncoder(file)}, nil
}

func (a *ReportFileAdapter) Report(finding types.Finding) error {
	if err := a.encoder.Encode(finding); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write finding").
			WithCause(err)
	}
	return nil
}

func (a *ReportFileAdapter) Close() error {
	return a.file.Close()
}
