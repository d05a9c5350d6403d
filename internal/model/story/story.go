package story

import (
	"fmt"
	"strings"
)

// TitleKey is the reserved key of the story title inside the story object
const TitleKey = "title"

// ScenePrefix marks the keys holding scene text (scene1, scene2, ...)
const ScenePrefix = "scene"

// MinSceneLength is the minimum trimmed length of a scene's text
const MinSceneLength = 10

// Request is the illustration request payload.
// Story holds the title plus one entry per scene, keyed scene1..sceneN.
type Request struct {
	UserID   string            `json:"userId"`
	StoryID  string            `json:"storyId"`
	Genre    string            `json:"genre"`
	Tone     string            `json:"tone"`
	Audience string            `json:"audience"`
	Story    map[string]string `json:"story"`
}

// ValidationError is a fatal request error: nothing is generated
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Title returns the story title
func (r *Request) Title() string {
	return r.Story[TitleKey]
}

// Validate checks required fields, the presence of at least one scene and
// the minimum scene text length
func (r *Request) Validate() error {
	required := []string{r.UserID, r.StoryID, r.Genre, r.Tone, r.Audience}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return &ValidationError{Reason: "one or more required fields are missing or invalid"}
		}
	}
	if r.Story == nil || strings.TrimSpace(r.Title()) == "" {
		return &ValidationError{Reason: "one or more required fields are missing or invalid"}
	}

	sceneKeys := SceneKeys(r.Story)
	if len(sceneKeys) == 0 {
		return &ValidationError{Reason: "no scenes found in story"}
	}

	for _, key := range sceneKeys {
		if len(strings.TrimSpace(r.Story[key])) < MinSceneLength {
			return &ValidationError{Reason: fmt.Sprintf("scene %q is too short or missing", key)}
		}
	}

	return nil
}

// CombinedText concatenates the title and every scene's text in scene order.
// This is the input to the moderation gate.
func (r *Request) CombinedText() string {
	parts := make([]string, 0, len(r.Story)+1)
	if t := r.Title(); t != "" {
		parts = append(parts, t)
	}
	for _, key := range SceneKeys(r.Story) {
		parts = append(parts, r.Story[key])
	}
	return strings.Join(parts, " ")
}
