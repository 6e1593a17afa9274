package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harborline/voyage-weather/internal/voyage"
)

var csvHeaders = []string{
	"origin",
	"destination",
	"planned_departure",
	"etd_allowed",
	"etd_reason",
	"p50_eta",
	"p90_eta",
	"provider",
}

// AppendCSV appends one summary row for the assessment to the CSV file at
// path, writing the header row when the file does not exist yet.
func AppendCSV(a voyage.Assessment, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeaders); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	allowed := "NO"
	if a.ETDAllowed {
		allowed = "YES"
	}
	row := []string{
		a.Plan.Origin,
		a.Plan.Destination,
		a.Plan.PlannedDeparture.Format(time.RFC3339),
		allowed,
		a.ETDReason,
		a.Window.ArrivalWindowStart.Format(time.RFC3339),
		a.Window.ArrivalWindowEnd.Format(time.RFC3339),
		a.Provenance,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}
