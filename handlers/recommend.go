package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RecommendRequest struct {
	Destination string `json:"destination" binding:"required"`
}

type RecommendResponse struct {
	Recommendations []string `json:"recommendations"`
}

func RecommendHandler(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, RecommendResponse{
		Recommendations: []string{
			"Top budget-friendly stays",
			"Famous local restaurants",
			"Hidden-viewpoint sunrise spots",
			"Best evening markets",
			"Photogenic places for reels",
		},
	})
}
