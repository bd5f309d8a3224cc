// Package nutrition proxies freeform meal descriptions to the Gemini API
// for macro estimation.
package nutrition

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/cache"
	"github.com/fitlife/backend/internal/client"
)

// BaseURL of the generative language API.
var BaseURL = "https://generativelanguage.googleapis.com"

const (
	modelPath      = "/v1beta/models/gemini-2.0-flash:generateContent"
	requestTimeout = 30 * time.Second
	maxQueryLen    = 500

	cachePrefix = "ai_analysis_"
	cacheTTL    = 24 * time.Hour
)

const systemPrompt = `You are an expert nutritionist specializing in global cuisines, with a deep focus on Indian meals (thalis, combos, street food).
Analyze the user's dish or meal combination.
You MUST respond ONLY with a valid JSON object.

SPECIAL INSTRUCTIONS FOR INDIAN MEALS:
- Account for 'Tadka' (tempering) which adds significant fat.
- If a meal is mentioned (e.g., 'Dal Chawal'), provide a combined total but mention the assumed portions in 'serving_size'.
- Account for hidden sugars in chutneys and gravies.

Format:
{
  "dish": "Dish Name",
  "calories": 0,
  "protein": 0,
  "carbs": 0,
  "fats": 0,
  "fiber": 0,
  "serving_size": "e.g. 2 Rotis + 1 bowl Dal",
  "health_note": "A very brief 1-sentence health insight."
}`

// Analysis is the structured estimate returned for a meal query.
type Analysis struct {
	Dish        string  `json:"dish"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	Fiber       float64 `json:"fiber"`
	ServingSize string  `json:"serving_size"`
	HealthNote  string  `json:"health_note"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction content          `json:"systemInstruction"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Analyze sends a meal description to the model and parses the structured
// estimate out of the response. Timeouts, non-2xx responses and malformed
// bodies all surface as service-unavailable; nothing is persisted beyond
// the optional response cache. A nil store disables caching.
func Analyze(ctx context.Context, store cache.Cache, query string) (*Analysis, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, apierror.Unavailable("AI service not configured")
	}

	query = strings.TrimSpace(query)
	if query == "" || len(query) > maxQueryLen {
		return nil, apierror.Validation("query must be 1-500 characters")
	}

	cacheKey := cachePrefix + strings.ToLower(query)
	if store != nil {
		var cached Analysis
		err := store.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !cache.Miss(err) {
			log.Println("[ERROR] reading analysis cache:", err)
		}
	}

	body := generateRequest{
		Contents:          []content{{Parts: []part{{Text: query}}}},
		SystemInstruction: content{Parts: []part{{Text: systemPrompt}}},
		GenerationConfig:  generationConfig{ResponseMIMEType: "application/json"},
	}

	base, err := url.Parse(BaseURL)
	if err != nil {
		log.Println("[ERROR] invalid AI base URL:", err)
		return nil, apierror.Unavailable("AI service unavailable")
	}

	c := client.NewClient(base, &http.Client{Timeout: requestTimeout})
	req, err := c.NewRequest(ctx, http.MethodPost, modelPath+"?key="+url.QueryEscape(apiKey), body)
	if err != nil {
		log.Println("[ERROR] building AI request:", err)
		return nil, apierror.Unavailable("AI service unavailable")
	}

	var out generateResponse
	if _, err := c.Do(req, &out); err != nil {
		log.Println("[ERROR] AI request failed:", err)
		return nil, apierror.Unavailable("AI service unavailable")
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		log.Println("[ERROR] AI response has no candidates")
		return nil, apierror.Unavailable("could not analyze meal")
	}

	var analysis Analysis
	text := out.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &analysis); err != nil || analysis.Dish == "" {
		log.Println("[ERROR] AI response is not the expected JSON:", text)
		return nil, apierror.Unavailable("could not analyze meal")
	}

	if store != nil {
		if err := store.SetJSON(ctx, cacheKey, analysis, cacheTTL); err != nil {
			log.Println("[ERROR] writing analysis cache:", err)
		}
	}

	return &analysis, nil
}
