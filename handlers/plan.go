package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"tripmate/services"

	"github.com/gin-gonic/gin"
)

type PlanRequest struct {
	Source      string   `json:"source" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Travelers   int      `json:"travelers" binding:"required,gt=0"`
	BudgetINR   *float64 `json:"budget_inr"`
	Preferences []string `json:"preferences"`
}

type PlanResponse struct {
	ItineraryMarkdown string            `json:"itinerary_markdown"`
	Flights           []services.Flight `json:"flights"`
	ImageURL          string            `json:"image_url"`
}

// PlanHandler composes the planning response: flight pipeline (exactly one
// invocation), destination image, then the LLM itinerary. Flight and image
// lookups degrade silently; only the itinerary call can fail the request,
// in which case the already-fetched flight data is discarded with it.
func PlanHandler(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format. Use YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format. Use YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	ctx := c.Request.Context()

	imageURL := services.GetWikipediaClient().FetchDestinationImage(ctx, req.Destination)

	flights := services.GetFlightClient().FetchRoundTrip(ctx, req.Source, req.Destination, req.StartDate, req.EndDate)

	numDays := int(end.Sub(start).Hours()/24) + 1 // include both start and end dates
	prompt := buildItineraryPrompt(req, numDays, flights)

	itinerary, err := services.GetAIClient().Chat(ctx, []services.ChatTurn{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("❌ Itinerary generation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Itinerary generation failed"})
		return
	}

	c.JSON(http.StatusOK, PlanResponse{
		ItineraryMarkdown: itinerary,
		Flights:           flights,
		ImageURL:          imageURL,
	})
}

func buildItineraryPrompt(req PlanRequest, numDays int, flights []services.Flight) string {
	budget := "flexible"
	if req.BudgetINR != nil {
		budget = fmt.Sprintf("%.0f", *req.BudgetINR)
	}

	flightData, _ := json.MarshalIndent(flights, "", "  ")

	return fmt.Sprintf(
		"Create a detailed %d-day trip plan for %s for %d traveler(s), from %s to %s. "+
			"Budget: ₹%s. Preferences: %s.\n\n"+
			"Here are the flight options found:\n%s\n\n"+
			"Please structure your response STRICTLY as follows:\n"+
			"1. **Flights**: Briefly summarize the best flight options from the data provided above.\n"+
			"2. **Hotels**: Suggest 3 good hotel options with estimated prices.\n"+
			"3. **Itinerary**: A COMPLETE day-by-day itinerary for ALL %d days. "+
			"IMPORTANT: You MUST include EVERY day from Day 1 to Day %d. "+
			"For each day, use format '### Day X - [Date]' (e.g., ### Day 1 - %s), "+
			"then list Morning, Afternoon, and Evening activities with timings and descriptions. "+
			"Do NOT skip or combine any days. Each day must have its own section.\n"+
			"4. **Budget Breakdown**: A table summarizing costs (Flights, Hotels, Food, Activities, Total).\n\n"+
			"Tone: Professional and helpful. Use emojis VERY sparingly (max 1 per section header). "+
			"Do not clutter text with emojis. Keep it clean and informative.",
		numDays, req.Destination, req.Travelers, req.StartDate, req.EndDate,
		budget, strings.Join(req.Preferences, ", "),
		string(flightData), numDays, numDays, req.StartDate,
	)
}
