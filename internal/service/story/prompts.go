package story

import (
	"fmt"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
)

// buildCoverPrompt renders the image prompt for a story's cover
func buildCoverPrompt(req *story.Request) string {
	return fmt.Sprintf(
		"masterpiece book cover, best quality, award-winning digital painting, cinematic, for a %s story titled %q. Tone: %s. Audience: %s.",
		req.Genre, req.Title(), req.Tone, req.Audience,
	)
}

// buildScenePrompt renders the image prompt for one scene
func buildScenePrompt(req *story.Request, sceneText string) string {
	return fmt.Sprintf(
		"masterpiece illustration, best quality, cinematic lighting, detailed, for a %s story. Tone: %s. Scene: %s.",
		req.Genre, req.Tone, sceneText,
	)
}
