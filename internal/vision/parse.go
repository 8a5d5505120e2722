package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

const maxSearchTerms = 5

// extractJSON pulls the first {...} object out of model text, which may be
// wrapped in a markdown fence or surrounded by prose.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", ErrMalformedResponse
	}
	return text[start : end+1], nil
}

func parseIdentification(text, provider string) (*Identification, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var out Identification
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out.SearchTerms = normalizeTerms(out.SearchTerms)
	if len(out.SearchTerms) == 0 {
		out.SearchTerms = normalizeTerms(out.Foods)
	}
	if len(out.SearchTerms) == 0 {
		return nil, ErrMalformedResponse
	}
	out.Confidence = normalizeConfidence(out.Confidence)
	out.Provider = provider
	return &out, nil
}

func parseMealEstimate(text, provider string) (*MealEstimate, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var out MealEstimate
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	out.Confidence = normalizeConfidence(out.Confidence)
	out.Provider = provider
	return &out, nil
}

// normalizeTerms lower-cases, trims and de-duplicates, keeping at most five.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == maxSearchTerms {
			break
		}
	}
	return out
}

func normalizeConfidence(c Confidence) Confidence {
	switch Confidence(strings.ToLower(string(c))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	}
	return ConfidenceLow
}
