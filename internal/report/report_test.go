package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/voyage-weather/internal/voyage"
)

func sampleAssessment() voyage.Assessment {
	departure := time.Date(2025, 10, 1, 6, 0, 0, 0, time.UTC)
	return voyage.Assessment{
		Plan: voyage.Plan{
			Origin:           "JebelAli",
			Destination:      "Salalah",
			PlannedDeparture: departure,
			DistanceNM:       180.0,
		},
		Vessel: voyage.VesselProfile{
			Name:              "MV Test",
			ServiceSpeedKnots: 18.0,
			WeatherCaps:       voyage.DefaultThresholds(),
		},
		Window: voyage.Window{
			Departure:          departure,
			ArrivalWindowStart: departure.Add(10 * time.Hour),
			ArrivalWindowEnd:   departure.Add(12 * time.Hour),
		},
		RiskFlags: []voyage.RiskFlag{
			{Code: "wind_speed", Passed: true, Reason: "10.00 <= 20.00"},
			{Code: "wave", Passed: false, Reason: "3.50 !<= 3.00"},
		},
		ETDAllowed: false,
		ETDReason:  "3.50 !<= 3.00",
		Provenance: "MarineCast",
	}
}

func TestFormatMarkdownSections(t *testing.T) {
	content := FormatMarkdown(sampleAssessment(), voyage.DefaultThresholds())

	assert.Contains(t, content, "# Voyage Report: JebelAli → Salalah")
	assert.Contains(t, content, "- Planned Departure: 2025-10-01T06:00:00Z")
	assert.Contains(t, content, "- Vessel: MV Test (Service Speed 18.00 kn)")
	assert.Contains(t, content, "- Provider: MarineCast")
	assert.Contains(t, content, "- ETD Allowed: NO")
	assert.Contains(t, content, "- PASS wind_speed: 10.00 <= 20.00")
	assert.Contains(t, content, "- FAIL wave: 3.50 !<= 3.00")
	assert.Contains(t, content, "- P50 ETA: 2025-10-01T16:00:00Z")
	assert.Contains(t, content, "- Max Wave Height: 3.00 m")
}

func TestWriteMarkdownCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	md, err := WriteMarkdown(sampleAssessment(), voyage.DefaultThresholds(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "JebelAli_Salalah_20251001T0600.md"), md.Path)

	data, err := os.ReadFile(md.Path)
	require.NoError(t, err)
	assert.Equal(t, md.Content, string(data))
}

func TestAppendCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "voyage_summary.csv")
	assessment := sampleAssessment()

	require.NoError(t, AppendCSV(assessment, path))
	require.NoError(t, AppendCSV(assessment, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "one header plus two rows")

	assert.Equal(t, csvHeaders, records[0])
	assert.Equal(t, "JebelAli", records[1][0])
	assert.Equal(t, "NO", records[1][3])
	assert.Equal(t, "2025-10-01T18:00:00Z", records[1][6])
	assert.Equal(t, "MarineCast", records[2][7])
}
