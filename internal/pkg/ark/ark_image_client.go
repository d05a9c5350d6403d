// Package ark wraps the Volcengine Ark image generation API. This is the
// single-pass provider variant: one remote text-to-image call per artifact.
package ark

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"github.com/georgem7154/once-upon-a-prompt/internal/config"
)

const (
	defaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	defaultModel   = "doubao-seedream-3-0-t2i-250415"
	defaultSize    = "1024x1024"
)

// ImageClient generates images through the Ark API
type ImageClient struct {
	client *arkruntime.Client
	model  string
	size   string
}

// NewImageClient builds the client from configuration
func NewImageClient(cfg *config.ArkImageConfig) (*ImageClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ark api_key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	size := cfg.Size
	if size == "" {
		size = defaultSize
	}

	arkClient := arkruntime.NewClientWithApiKey(
		cfg.APIKey,
		arkruntime.WithBaseUrl(baseURL),
	)

	return &ImageClient{
		client: arkClient,
		model:  modelName,
		size:   size,
	}, nil
}

// GenerateImage runs one seeded text-to-image call and returns the decoded
// image bytes
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string, seed int64) ([]byte, error) {
	responseFormat := "b64_json"
	watermark := false
	size := c.size

	input := model.GenerateImagesRequest{
		Model:          c.model,
		Prompt:         prompt,
		Size:           &size,
		Seed:           &seed,
		ResponseFormat: &responseFormat,
		Watermark:      &watermark,
	}

	output, err := c.client.GenerateImages(ctx, input)
	if err != nil {
		log.Error().Err(err).Msg("failed to call Ark GenerateImages API")
		return nil, fmt.Errorf("Ark GenerateImages API call failed: %w", err)
	}

	if len(output.Data) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	firstImage := output.Data[0]
	if firstImage.B64Json == nil {
		return nil, fmt.Errorf("no b64_json in response data")
	}

	imageData, err := base64.StdEncoding.DecodeString(*firstImage.B64Json)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	return imageData, nil
}
