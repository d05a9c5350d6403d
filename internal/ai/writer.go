// Package ai wraps the LLM used to draft story text before illustration.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/georgem7154/once-upon-a-prompt/internal/ai/component"
	"github.com/georgem7154/once-upon-a-prompt/internal/config"
	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
)

const writerSystemPrompt = `You are a children's and young-adult story writer.
Respond with a single JSON object and nothing else. The object must have a
"title" key and keys "scene1" through "sceneN" in order, one short paragraph
each. Do not wrap the JSON in markdown fences.`

// Writer drafts a story as a title plus numbered scenes
type Writer struct {
	chatModel model.ChatModel
}

// NewWriter builds the writer over the configured ChatModel
func NewWriter(ctx context.Context, cfg *config.AIConfig) (*Writer, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return &Writer{chatModel: chatModel}, nil
}

// NewWriterWithModel wraps an existing ChatModel (used by tests)
func NewWriterWithModel(chatModel model.ChatModel) *Writer {
	return &Writer{chatModel: chatModel}
}

// WriteStory asks the LLM for a story and returns the story object
// ({title, scene1..sceneN}). The result satisfies the same shape the
// illustration endpoints consume.
func (w *Writer) WriteStory(ctx context.Context, prompt, genre, tone, audience string, sceneCount int) (map[string]string, error) {
	if sceneCount <= 0 {
		sceneCount = 3
	}

	userPrompt := fmt.Sprintf(
		"Write a %s story with exactly %d scenes.\nTone: %s. Audience: %s.\nPremise: %s",
		genre, sceneCount, tone, audience, prompt,
	)

	messages := []*schema.Message{
		schema.SystemMessage(writerSystemPrompt),
		schema.UserMessage(userPrompt),
	}

	response, err := w.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generate story text: %w", err)
	}

	storyObj, err := parseStoryJSON(response.Content)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(storyObj[story.TitleKey]) == "" {
		return nil, fmt.Errorf("model response is missing a title")
	}
	if len(story.SceneKeys(storyObj)) == 0 {
		return nil, fmt.Errorf("model response contains no scenes")
	}

	return storyObj, nil
}

// parseStoryJSON decodes the model output, tolerating markdown fences the
// model sometimes adds despite instructions
func parseStoryJSON(content string) (map[string]string, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var storyObj map[string]string
	if err := json.Unmarshal([]byte(trimmed), &storyObj); err != nil {
		return nil, fmt.Errorf("model response is not a story object: %w", err)
	}
	return storyObj, nil
}
