package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"tripmate/database"
	"tripmate/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TripRequest struct {
	ID                string            `json:"id"` // generated when absent
	Destination       string            `json:"destination" binding:"required"`
	StartDate         string            `json:"start_date" binding:"required"`
	EndDate           string            `json:"end_date" binding:"required"`
	Travelers         int               `json:"travelers" binding:"required,gt=0"`
	BudgetINR         *float64          `json:"budget_inr"`
	ItineraryMarkdown string            `json:"itinerary_markdown" binding:"required"`
	Flights           []services.Flight `json:"flights"`
	ImageURL          string            `json:"image_url"`
}

type TripResponse struct {
	database.Trip
	Flights []services.Flight `json:"flights"`
}

func CreateTripHandler(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := CurrentUser(c)

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	flightsJSON, _ := json.Marshal(req.Flights)

	trip := &database.Trip{
		ID:                req.ID,
		UserID:            user.ID,
		Destination:       req.Destination,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Travelers:         req.Travelers,
		BudgetINR:         req.BudgetINR,
		ItineraryMarkdown: req.ItineraryMarkdown,
		FlightsJSON:       string(flightsJSON),
		ImageURL:          req.ImageURL,
	}

	if err := database.SaveTrip(trip); err != nil {
		log.Printf("❌ Failed to save trip: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trip"})
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

func ListTripsHandler(c *gin.Context) {
	user := CurrentUser(c)

	trips, err := database.GetTrips(user.ID)
	if err != nil {
		log.Printf("❌ Failed to load trips: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trips"})
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, toTripResponse(&trips[i]))
	}
	c.JSON(http.StatusOK, out)
}

func DeleteTripHandler(c *gin.Context) {
	user := CurrentUser(c)

	deleted, err := database.DeleteTrip(c.Param("id"), user.ID)
	if err != nil {
		log.Printf("❌ Failed to delete trip: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Trip deleted"})
}

func toTripResponse(t *database.Trip) TripResponse {
	var flights []services.Flight
	if t.FlightsJSON != "" {
		if err := json.Unmarshal([]byte(t.FlightsJSON), &flights); err != nil {
			flights = nil
		}
	}
	return TripResponse{Trip: *t, Flights: flights}
}
