package handlers

import (
	"log"
	"net/http"
	"time"
	"tripmate/database"
	"tripmate/services"

	"github.com/gin-gonic/gin"
)

const chatSystemPrompt = "You are a helpful AI travel planner. Please be professional. " +
	"Use emojis ONLY for bullet points or lists, and very sparingly in paragraphs. Do not overuse them."

// How much saved conversation is replayed to the model per turn.
const chatContextWindow = 6

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type historyEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := CurrentUser(c)

	// Persist the user's message first so it is part of the replayed context.
	userMsg := &database.ChatMessage{UserID: user.ID, Role: "user", Content: req.Message}
	if err := database.SaveChatMessage(userMsg); err != nil {
		log.Printf("❌ Failed to save chat message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	recent, err := database.GetRecentMessages(user.ID, chatContextWindow)
	if err != nil {
		log.Printf("❌ Failed to load chat context: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	turns := make([]services.ChatTurn, 0, len(recent)+1)
	turns = append(turns, services.ChatTurn{Role: "system", Content: chatSystemPrompt})
	for _, m := range recent {
		turns = append(turns, services.ChatTurn{Role: m.Role, Content: m.Content})
	}

	reply, err := services.GetAIClient().Chat(c.Request.Context(), turns)
	if err != nil {
		// The failed attempt's user message stays saved.
		log.Printf("❌ Chat completion failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat request failed"})
		return
	}

	botMsg := &database.ChatMessage{UserID: user.ID, Role: "assistant", Content: reply}
	if err := database.SaveChatMessage(botMsg); err != nil {
		log.Printf("❌ Failed to save bot reply: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reply"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func HistoryHandler(c *gin.Context) {
	user := CurrentUser(c)

	messages, err := database.GetRecentMessages(user.ID, 50)
	if err != nil {
		log.Printf("❌ Failed to load chat history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	out := make([]historyEntry, 0, len(messages))
	for _, m := range messages {
		out = append(out, historyEntry{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}
