package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
)

const identifyPrompt = `You are a food identification expert. Analyze the image and identify food items that can be found in the Open Food Facts database. Focus on packaged foods, branded products, and items with barcodes. Return only valid JSON with this structure:
{
  "identifiedFoods": ["specific food name 1", "specific food name 2"],
  "confidence": "high|medium|low",
  "searchTerms": ["search term 1", "search term 2", "search term 3"],
  "notes": "brief description of what you see"
}
Make search terms specific and likely to find results in Open Food Facts (e.g., "oats", "cereal", "pasta", "bread", "milk").`

const estimatePrompt = `You are a nutrition expert analyzing meal photos. Analyze the image and provide nutritional estimates in JSON format. Return only valid JSON with the following structure:
{
  "estimatedNutrition": {"calories": number, "protein": number, "carbs": number, "fat": number, "fiber": number, "sodium": number, "sugar": number},
  "identifiedFoods": ["food1", "food2"],
  "portionSize": "description",
  "confidence": "high|medium|low",
  "notes": "additional observations"
}`

type chatContentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIClient identifies foods with an OpenAI vision-capable chat model.
type OpenAIClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewOpenAIClient returns a client for the chat completions endpoint. An
// empty model selects gpt-4o-mini.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		apiKey: apiKey,
		apiURL: defaultOpenAIURL,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithURL points the client at a different endpoint.
func (c *OpenAIClient) WithURL(url string) *OpenAIClient {
	c.apiURL = url
	return c
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) IdentifyFoods(ctx context.Context, img Image, hint string) (*Identification, error) {
	text := "Identify the food items in this image that could be found in a food database. Focus on packaged or branded products."
	if hint != "" {
		text += " Additional context: " + hint
	}

	content, err := c.complete(ctx, identifyPrompt, text, img, 300)
	if err != nil {
		return nil, err
	}
	return parseIdentification(content, c.Name())
}

func (c *OpenAIClient) EstimateMeal(ctx context.Context, img Image, description string) (*MealEstimate, error) {
	text := "Analyze this meal photo and provide nutritional estimates."
	if description != "" {
		text += " Additional context: " + description
	}

	content, err := c.complete(ctx, estimatePrompt, text, img, 500)
	if err != nil {
		return nil, err
	}
	return parseMealEstimate(content, c.Name())
}

// Complete sends a plain text prompt without an image.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	return c.send(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
}

func (c *OpenAIClient) complete(ctx context.Context, system, text string, img Image, maxTokens int) (string, error) {
	imageURL := img.URL
	if imageURL == "" {
		if len(img.Data) == 0 {
			return "", fmt.Errorf("image url or data is required")
		}
		imageURL = DataURL(img.Data, img.MIMEType)
	}

	return c.send(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: []chatContentPart{
				{Type: "text", Text: text},
				{Type: "image_url", ImageURL: &chatImageURL{URL: imageURL}},
			}},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
}

func (c *OpenAIClient) send(ctx context.Context, reqBody chatRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}
