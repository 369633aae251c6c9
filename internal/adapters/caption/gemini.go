// Package caption implements the Captioner port against Google's Gemini API.
package caption

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"geostation-service/internal/domain"
	"geostation-service/internal/platform/obs"
)

const (
	defaultModel   = "gemini-2.0-flash"
	captionTimeout = 30 * time.Second
)

// GeminiCaptioner turns station photos plus a coordinate into a short
// English description. One attempt per call, bounded by captionTimeout;
// substituting fallback text on failure is the caller's concern.
type GeminiCaptioner struct {
	client *genai.Client
	model  string
}

func NewGeminiCaptioner(ctx context.Context, apiKey, model string) (*GeminiCaptioner, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini captioner: api key is empty")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini captioner: create client: %w", err)
	}

	return &GeminiCaptioner{client: client, model: model}, nil
}

// Caption sends the ordered image blobs (inferred JPEG) and the position to
// the model and returns its prose response.
func (g *GeminiCaptioner) Caption(ctx context.Context, images [][]byte, position domain.Coordinate) (_ string, err error) {
	defer obs.Time(ctx, "caption.Caption")(&err)

	if len(images) == 0 {
		return "", errors.New("caption: no images given")
	}

	ctx, cancel := context.WithTimeout(ctx, captionTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"These photos show a station or facility located at latitude %.6f, longitude %.6f. "+
			"Write a factual English description of it in at most 100 words. "+
			"Mention visible equipment, surroundings and condition. Respond with prose only.",
		position.Lat, position.Lng,
	)

	parts := make([]*genai.Part, 0, 1+len(images))
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, "image/jpeg"))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("caption: generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("caption: model returned no text")
	}

	return text, nil
}
