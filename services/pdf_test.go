package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTripPDF(t *testing.T) {
	budget := 80000.0
	pdfBytes, err := GenerateTripPDF(TripPDFData{
		TravelerName: "Asha",
		Destination:  "Dubai",
		StartDate:    "2026-02-06",
		EndDate:      "2026-02-13",
		Travelers:    2,
		BudgetINR:    &budget,
		Flights:      GenerateMockFlights("BOM", "DXB", "2026-02-06", "2026-02-13"),
		Itinerary:    "### Day 1 - 2026-02-06\n**Morning**: arrive and check in.",
	})

	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestGenerateTripPDFMinimalTrip(t *testing.T) {
	pdfBytes, err := GenerateTripPDF(TripPDFData{
		Destination: "Goa",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-05",
		Travelers:   1,
	})

	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
}

func TestFlattenMarkdown(t *testing.T) {
	got := flattenMarkdown("### Day 1 - 2026-02-06\n**Morning**: visit the `old town`.")
	assert.Equal(t, "Day 1 - 2026-02-06\nMorning: visit the old town.", got)
}
