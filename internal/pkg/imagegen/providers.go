package imagegen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/georgem7154/once-upon-a-prompt/internal/config"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/ark"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/hunyuan"
)

// HunyuanProvider adapts the Gradio-hosted HunyuanImage client. Internally a
// two-stage generate-then-refine pipeline; callers see one call.
type HunyuanProvider struct {
	client *hunyuan.Client
}

// NewHunyuanProvider wraps an existing client
func NewHunyuanProvider(client *hunyuan.Client) *HunyuanProvider {
	return &HunyuanProvider{client: client}
}

// Generate implements Generator
func (p *HunyuanProvider) Generate(ctx context.Context, prompt string, seed int64, gc GenContext) ([]byte, error) {
	image, err := p.client.GenerateImage(ctx, prompt, seed)
	if err != nil {
		return nil, &ProviderError{Provider: "hunyuan", Err: err}
	}

	log.Info().
		Str("story_id", gc.StoryID).
		Str("item", gc.ItemKey).
		Int("size", len(image)).
		Msg("hunyuan image generated")

	return image, nil
}

// ArkProvider adapts the Volcengine Ark image client (single-pass)
type ArkProvider struct {
	client *ark.ImageClient
}

// NewArkProvider wraps an existing client
func NewArkProvider(client *ark.ImageClient) *ArkProvider {
	return &ArkProvider{client: client}
}

// Generate implements Generator
func (p *ArkProvider) Generate(ctx context.Context, prompt string, seed int64, gc GenContext) ([]byte, error) {
	image, err := p.client.GenerateImage(ctx, prompt, seed)
	if err != nil {
		return nil, &ProviderError{Provider: "ark", Err: err}
	}

	log.Info().
		Str("story_id", gc.StoryID).
		Str("item", gc.ItemKey).
		Int("size", len(image)).
		Msg("ark image generated")

	return image, nil
}

// NewProvider builds the configured provider backend
func NewProvider(cfg *config.ImageConfig) (Generator, error) {
	switch cfg.Provider {
	case "hunyuan", "":
		client := hunyuan.NewClient(&hunyuan.Config{
			Space:   cfg.Hunyuan.Space,
			BaseURL: cfg.Hunyuan.BaseURL,
			Token:   cfg.Hunyuan.Token,
			Timeout: cfg.RequestTimeout,
		})
		return NewHunyuanProvider(client), nil
	case "ark":
		client, err := ark.NewImageClient(&cfg.Ark)
		if err != nil {
			return nil, fmt.Errorf("create Ark image client: %w", err)
		}
		return NewArkProvider(client), nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.Provider)
	}
}
