// Package hunyuan talks to a Gradio-hosted HunyuanImage space. Image
// generation is a two-stage pipeline: a base text-to-image call followed by
// a refinement call that takes the base image as input. Both stages use the
// same seed so a story keeps one visual style.
package hunyuan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const negativePrompt = "ugly, deformed, noisy, blurry, low contrast, text, " +
	"signature, watermark, username, logo, worst quality, low quality, " +
	"bad anatomy, bad hands, extra fingers"

// Client is a process-wide handle to one Gradio space. The handshake with
// the space is lazy and single-flight: concurrent first users serialize on
// one initialization, and the handle is reused across runs without per-run
// setup. A failed handshake is not latched; the next call retries it.
// Safe for concurrent use.
type Client struct {
	cfg        *Config
	base       string
	httpClient *http.Client

	mu        sync.Mutex
	connected bool
}

// NewClient builds an unconnected client. The space handshake happens on
// first use.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		cfg:  cfg,
		base: cfg.baseURL(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// connect performs the handshake on first use: fetching the space config
// proves the space is up and warms the connection pool. Holding the mutex
// for the handshake keeps initialization single-flight; only success is
// remembered, so a transient failure is retried by the next caller.
func (c *Client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	log.Info().Str("base_url", c.base).Msg("connecting to Gradio space")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/config", nil)
	if err != nil {
		return fmt.Errorf("create handshake request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("space handshake: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("space handshake: status %d", resp.StatusCode)
	}

	c.connected = true
	log.Info().Str("base_url", c.base).Msg("Gradio space connected")
	return nil
}

// GenerateImage runs the full generate-then-refine pipeline and returns the
// final image bytes. The refine stage depends on the base stage's output;
// the two remote calls are strictly sequential.
func (c *Client) GenerateImage(ctx context.Context, prompt string, seed int64) ([]byte, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	baseImage, err := c.generateBase(ctx, prompt, seed)
	if err != nil {
		return nil, err
	}

	return c.refine(ctx, baseImage, prompt, seed)
}

// generateBase runs the text-to-image stage
func (c *Client) generateBase(ctx context.Context, prompt string, seed int64) ([]byte, error) {
	result, err := c.predict(ctx, "generate_image", []any{
		prompt,
		negativePrompt,
		1024, // width
		1024, // height
		25,   // num_inference_steps
		3.5,  // guidance_scale
		seed,
		false, // use_reprompt
		false, // use_refiner
	})
	if err != nil {
		return nil, fmt.Errorf("generate_image: %w", err)
	}

	url, err := firstFileURL(result)
	if err != nil {
		return nil, fmt.Errorf("generate_image: %w", err)
	}

	return c.fetchFile(ctx, url)
}

// refine runs the refinement stage over a base image
func (c *Client) refine(ctx context.Context, image []byte, prompt string, seed int64) ([]byte, error) {
	result, err := c.predict(ctx, "refine_image", []any{
		dataURI(image),
		prompt,
		1024, // width
		1024, // height
		10,   // num_inference_steps
		3.0,  // guidance_scale
		seed,
	})
	if err != nil {
		return nil, fmt.Errorf("refine_image: %w", err)
	}

	url, err := firstFileURL(result)
	if err != nil {
		return nil, fmt.Errorf("refine_image: %w", err)
	}

	return c.fetchFile(ctx, url)
}

type predictRequest struct {
	Data []any `json:"data"`
}

type predictResponse struct {
	Data []json.RawMessage `json:"data"`
}

// predict posts one Gradio API call and decodes its result payload
func (c *Client) predict(ctx context.Context, apiName string, data []any) (*predictResponse, error) {
	payload, err := json.Marshal(predictRequest{Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/run/%s", c.base, apiName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", apiName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", apiName, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", apiName, resp.StatusCode)
	}

	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", apiName, err)
	}
	return &result, nil
}

// fetchFile downloads a generated file from the space
func (c *Client) fetchFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}

// firstFileURL extracts the URL of the first file in a predict result
func firstFileURL(result *predictResponse) (string, error) {
	if len(result.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}

	var file struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(result.Data[0], &file); err != nil || file.URL == "" {
		// some space versions return a bare URL string
		var raw string
		if err := json.Unmarshal(result.Data[0], &raw); err == nil && raw != "" {
			return raw, nil
		}
		return "", fmt.Errorf("no usable image URL in response")
	}
	return file.URL, nil
}

// dataURI encodes image bytes the way Gradio file inputs expect
func dataURI(image []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
}
