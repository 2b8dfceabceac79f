package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"tripmate/database"
	"tripmate/services"

	"github.com/gin-gonic/gin"
)

// TripPDFHandler renders one of the caller's saved trips as a downloadable
// PDF.
func TripPDFHandler(c *gin.Context) {
	user := CurrentUser(c)

	trip, err := database.GetTrip(c.Param("id"), user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	var flights []services.Flight
	if trip.FlightsJSON != "" {
		_ = json.Unmarshal([]byte(trip.FlightsJSON), &flights)
	}

	pdfBytes, err := services.GenerateTripPDF(services.TripPDFData{
		TravelerName: user.Name,
		Destination:  trip.Destination,
		StartDate:    trip.StartDate,
		EndDate:      trip.EndDate,
		Travelers:    trip.Travelers,
		BudgetINR:    trip.BudgetINR,
		Flights:      flights,
		Itinerary:    trip.ItineraryMarkdown,
	})
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=tripmate-itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func HealthHandler(c *gin.Context) {
	db := database.DB
	dbStatus := "ok"
	if db == nil {
		dbStatus = "not initialized"
	} else if err := db.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "TripMate API",
		"database": dbStatus,
	})
}
