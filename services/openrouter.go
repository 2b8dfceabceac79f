package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type AIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var aiClient *AIClient

func InitAI() {
	model := os.Getenv("MODEL")
	if model == "" {
		model = "meta-llama/llama-3.3-70b-instruct"
	}

	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	aiClient = NewAIClient(os.Getenv("OPENROUTER_API_KEY"), model, baseURL)

	if aiClient.apiKey != "" {
		log.Println("✅ AI (OpenRouter) initialized with model:", model)
	} else {
		log.Println("⚠️  OPENROUTER_API_KEY not set — itinerary and chat requests will fail")
	}
}

func NewAIClient(apiKey, model, baseURL string) *AIClient {
	return &AIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func GetAIClient() *AIClient {
	return aiClient
}

// ChatTurn is one message in an OpenRouter chat-completion conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model    string     `json:"model"`
	Messages []ChatTurn `json:"messages"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends the conversation to OpenRouter and returns the assistant's
// reply. Unlike the flight client, failures here are real errors: the
// caller decides whether the request as a whole fails.
func (c *AIClient) Chat(ctx context.Context, turns []ChatTurn) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openrouter API key not configured")
	}

	jsonBody, err := json.Marshal(openRouterRequest{
		Model:    c.model,
		Messages: turns,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "http://localhost:8000")
	req.Header.Set("X-Title", "TripMate AI")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed openRouterResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse AI response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from AI")
	}

	return parsed.Choices[0].Message.Content, nil
}
