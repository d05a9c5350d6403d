package hunyuan

import (
	"strings"
	"time"
)

// DefaultSpace is the hosted HunyuanImage Gradio space
const DefaultSpace = "tencent/HunyuanImage-2.1"

// Config for the Gradio-hosted HunyuanImage backend
type Config struct {
	Space   string        // Hugging Face space id, e.g. tencent/HunyuanImage-2.1
	BaseURL string        // overrides the space-derived URL when set
	Token   string        // optional HF token for gated spaces
	Timeout time.Duration // per-request timeout
}

// baseURL resolves the endpoint root: an explicit BaseURL wins, otherwise
// the conventional https://<owner>-<name>.hf.space host for the space
func (c *Config) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	space := c.Space
	if space == "" {
		space = DefaultSpace
	}
	host := strings.ToLower(strings.NewReplacer("/", "-", "_", "-", ".", "-").Replace(space))
	return "https://" + host + ".hf.space"
}
