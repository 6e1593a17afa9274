// Package report renders voyage assessments for operators: a markdown
// report per voyage and an append-only CSV summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborline/voyage-weather/internal/voyage"
)

// Markdown holds a rendered report and where it was written.
type Markdown struct {
	Content string
	Path    string
}

// FormatMarkdown renders the assessment as a markdown document.
func FormatMarkdown(a voyage.Assessment, thresholds voyage.Thresholds) string {
	etdFlag := "NO"
	if a.ETDAllowed {
		etdFlag = "YES"
	}

	lines := []string{
		fmt.Sprintf("# Voyage Report: %s → %s", a.Plan.Origin, a.Plan.Destination),
		"",
		"## Inputs",
		fmt.Sprintf("- Planned Departure: %s", a.Plan.PlannedDeparture.Format("2006-01-02T15:04:05Z07:00")),
		fmt.Sprintf("- Distance (NM): %.2f", a.Plan.DistanceNM),
		fmt.Sprintf("- Vessel: %s (Service Speed %.2f kn)", a.Vessel.Name, a.Vessel.ServiceSpeedKnots),
		"",
		"## Weather & Risk",
		fmt.Sprintf("- Provider: %s", a.Provenance),
		fmt.Sprintf("- ETD Allowed: %s", etdFlag),
		fmt.Sprintf("- ETD Reason: %s", a.ETDReason),
		"",
		"### Risk Flags",
	}
	for _, flag := range a.RiskFlags {
		status := "PASS"
		if !flag.Passed {
			status = "FAIL"
		}
		lines = append(lines, fmt.Sprintf("- %s %s: %s", status, flag.Code, flag.Reason))
	}
	lines = append(lines,
		"",
		"## Arrival Window",
		fmt.Sprintf("- P50 ETA: %s", a.Window.ArrivalWindowStart.Format("2006-01-02T15:04:05Z07:00")),
		fmt.Sprintf("- P90 ETA: %s", a.Window.ArrivalWindowEnd.Format("2006-01-02T15:04:05Z07:00")),
		"",
		"## Thresholds",
		fmt.Sprintf("- Max Wind Speed: %.2f kn", thresholds.MaxWindSpeed),
		fmt.Sprintf("- Max Gust: %.2f kn", thresholds.MaxGust),
		fmt.Sprintf("- Max Wave Height: %.2f m", thresholds.MaxWaveHeight),
		fmt.Sprintf("- Min Visibility: %.2f nm", thresholds.MinVisibility),
	)
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// WriteMarkdown renders the assessment and writes it under dir as
// <origin>_<destination>_<departure>.md.
func WriteMarkdown(a voyage.Assessment, thresholds voyage.Thresholds, dir string) (Markdown, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Markdown{}, fmt.Errorf("create report dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.md",
		a.Plan.Origin, a.Plan.Destination, a.Plan.PlannedDeparture.Format("20060102T1504"))
	path := filepath.Join(dir, name)

	content := FormatMarkdown(a, thresholds)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Markdown{}, fmt.Errorf("write report: %w", err)
	}
	return Markdown{Content: content, Path: path}, nil
}
