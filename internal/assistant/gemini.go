package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
)

// Gemini calls the Gemini API. Each call kind has its own breaker so an
// image quota outage does not silence the chat.
type Gemini struct {
	client     *genai.Client
	textModel  string
	imageModel string

	textCB  *gobreaker.CircuitBreaker[string]
	imageCB *gobreaker.CircuitBreaker[Image]
}

func NewGemini(ctx context.Context, cfg config.AssistantConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("assistant api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		textCB:     gobreaker.NewCircuitBreaker[string](breakerSettings("gemini-text")),
		imageCB:    gobreaker.NewCircuitBreaker[Image](breakerSettings("gemini-image")),
	}, nil
}

func breakerSettings(name string) gobreaker.Settings {
	lg := logger.New("assistant")
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 3 },
		OnStateChange: func(name string, from, to gobreaker.State) {
			lg.Warn("breaker_state_changed", nil, map[string]any{"breaker": name, "from": from.String(), "to": to.String()})
		},
	}
}

func (g *Gemini) Text(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	return g.textCB.Execute(func() (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       genai.Ptr(temperature),
		})
		if err != nil {
			return "", fmt.Errorf("generate text: %w", err)
		}
		return resp.Text(), nil
	})
}

func (g *Gemini) Image(ctx context.Context, prompt string) (Image, error) {
	return g.imageCB.Execute(func() (Image, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), nil)
		if err != nil {
			return Image{}, fmt.Errorf("generate image: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
					return Image{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}, nil
				}
			}
		}
		return Image{}, errors.New("no inline image in response")
	})
}
