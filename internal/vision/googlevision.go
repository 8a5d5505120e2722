package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultGoogleVisionURL = "https://vision.googleapis.com/v1/images:annotate"

const minLabelScore = 0.7

var (
	foodWords   = []string{"food", "ingredient", "snack", "beverage", "fruit", "vegetable", "meat", "dairy", "grain", "cereal", "bread", "pasta", "sauce", "spice"}
	brandText   = regexp.MustCompile(`^[A-Za-z\s&'-]+$`)
	genericTerm = []string{"food", "snack", "meal"}
)

// GoogleVisionClient identifies foods from Cloud Vision label and text
// detection. It cannot estimate nutrition.
type GoogleVisionClient struct {
	apiKey string
	apiURL string
	client *http.Client
	images *http.Client
}

func NewGoogleVisionClient(apiKey string) *GoogleVisionClient {
	return &GoogleVisionClient{
		apiKey: apiKey,
		apiURL: defaultGoogleVisionURL,
		client: &http.Client{Timeout: 30 * time.Second},
		images: NewImageClient(30 * time.Second),
	}
}

// WithURL points the client at a different endpoint.
func (g *GoogleVisionClient) WithURL(u string) *GoogleVisionClient {
	g.apiURL = u
	return g
}

func (g *GoogleVisionClient) Name() string { return "google-vision" }

type annotateRequest struct {
	Requests []annotateImageRequest `json:"requests"`
}

type annotateImageRequest struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []entityAnnotation `json:"labelAnnotations"`
		TextAnnotations  []entityAnnotation `json:"textAnnotations"`
	} `json:"responses"`
}

type entityAnnotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

func (g *GoogleVisionClient) IdentifyFoods(ctx context.Context, img Image, hint string) (*Identification, error) {
	if g.apiKey == "" {
		return nil, ErrUnavailable
	}

	data, _, err := Load(ctx, g.images, img)
	if err != nil {
		return nil, err
	}
	content := base64.StdEncoding.EncodeToString(data)

	var labels, texts []entityAnnotation
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		resp, err := g.annotate(egCtx, content, "LABEL_DETECTION", 10)
		if err != nil {
			return err
		}
		if len(resp.Responses) > 0 {
			labels = resp.Responses[0].LabelAnnotations
		}
		return nil
	})
	eg.Go(func() error {
		resp, err := g.annotate(egCtx, content, "TEXT_DETECTION", 5)
		if err != nil {
			return err
		}
		if len(resp.Responses) > 0 {
			texts = resp.Responses[0].TextAnnotations
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := summarizeAnnotations(labels, texts)
	if hint != "" {
		out.Notes += " User context: " + hint
	}
	return out, nil
}

func (g *GoogleVisionClient) EstimateMeal(ctx context.Context, img Image, description string) (*MealEstimate, error) {
	return nil, ErrUnsupported
}

func (g *GoogleVisionClient) annotate(ctx context.Context, content, feature string, maxResults int) (*annotateResponse, error) {
	body, err := json.Marshal(annotateRequest{Requests: []annotateImageRequest{{
		Image:    annotateImage{Content: content},
		Features: []annotateFeature{{Type: feature, MaxResults: maxResults}},
	}}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := g.apiURL + "?key=" + url.QueryEscape(g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call google vision: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google vision %s failed with status %d", feature, resp.StatusCode)
	}

	var parsed annotateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &parsed, nil
}

// summarizeAnnotations keeps confident food labels and brand-like text and
// turns them into search terms. The first text annotation is the full text
// block and is skipped.
func summarizeAnnotations(labels, texts []entityAnnotation) *Identification {
	var foodLabels []string
	for _, l := range labels {
		if l.Score <= minLabelScore {
			continue
		}
		desc := strings.ToLower(strings.TrimSpace(l.Description))
		if desc != "" && isFoodLabel(desc) {
			foodLabels = append(foodLabels, desc)
		}
	}

	var brands []string
	if len(texts) > 1 {
		for _, t := range texts[1:] {
			d := strings.TrimSpace(t.Description)
			if len(d) > 2 && len(d) < 30 && brandText.MatchString(d) {
				brands = append(brands, d)
			}
		}
	}

	var terms []string
	terms = append(terms, head(foodLabels, 3)...)
	terms = append(terms, head(brands, 2)...)
	if len(foodLabels) < 2 {
		terms = append(terms, genericTerm...)
	}
	terms = normalizeTerms(terms)

	foods := append([]string{}, foodLabels...)
	for _, b := range brands {
		if len(b) < 20 {
			foods = append(foods, b)
		}
	}
	foods = head(foods, maxSearchTerms)
	if len(foods) == 0 {
		foods = []string{"Food items detected"}
	}

	confidence := ConfidenceLow
	switch {
	case len(foodLabels) >= 3:
		confidence = ConfidenceHigh
	case len(foodLabels) >= 1:
		confidence = ConfidenceMedium
	}

	return &Identification{
		Foods:       foods,
		Confidence:  confidence,
		SearchTerms: terms,
		Notes:       fmt.Sprintf("Google Vision detected %d labels and %d text elements.", len(labels), len(texts)),
		Provider:    "google-vision",
	}
}

func isFoodLabel(label string) bool {
	for _, w := range foodWords {
		if strings.Contains(label, w) || strings.Contains(w, label) {
			return true
		}
	}
	return false
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
