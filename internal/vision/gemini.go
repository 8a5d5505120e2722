package vision

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient identifies foods with a Gemini multimodal model. Images are
// sent inline, so URLs are downloaded first.
type GeminiClient struct {
	client     *genai.Client
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      model,
		httpClient: NewImageClient(30 * time.Second),
	}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) IdentifyFoods(ctx context.Context, img Image, hint string) (*Identification, error) {
	prompt := "Identify the food items in this image that could be found in a food database."
	if hint != "" {
		prompt += " Additional context: " + hint
	}

	text, err := g.generate(ctx, identifyPrompt, prompt, img)
	if err != nil {
		return nil, err
	}
	return parseIdentification(text, g.Name())
}

func (g *GeminiClient) EstimateMeal(ctx context.Context, img Image, description string) (*MealEstimate, error) {
	prompt := "Analyze this meal photo and provide nutritional estimates."
	if description != "" {
		prompt += " Additional context: " + description
	}

	text, err := g.generate(ctx, estimatePrompt, prompt, img)
	if err != nil {
		return nil, err
	}
	return parseMealEstimate(text, g.Name())
}

func (g *GeminiClient) generate(ctx context.Context, system, prompt string, img Image) (string, error) {
	data, mimeType, err := Load(ctx, g.httpClient, img)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	return text, nil
}
