package driver

import (
	"encoding/json"
	"fmt"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// timingDiagnostic renders the phase report as an OBS6001 info
// diagnostic with the JSON payload in its note.
func timingDiagnostic(runID string, r observ.Report) (diag.Diagnostic, error) {
	data, err := json.Marshal(struct {
		RunID string `json:"run_id"`
		observ.Report
	}{runID, r})
	if err != nil {
		return diag.Diagnostic{}, err
	}
	msg := fmt.Sprintf("timings: total %.2f ms over %d phases", r.TotalMS, len(r.Phases))
	return diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data)), nil
}
