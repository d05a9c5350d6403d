package story

import (
	"github.com/gin-gonic/gin"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/sse"
)

// IllustrateStream generates a story's cover and scene images, streaming
// each artifact as a server-sent event the moment it is ready.
// @Summary      Illustrate a story (streaming)
// @Description  Generates the cover and one image per scene, streamed as SSE frames (cover/scene/error/done)
// @Tags         stories
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body      object  true  "Story request"
// @Success      200      {string}  string  "event stream"
// @Router       /api/v1/stories/illustrate/stream [post]
func (h *Handler) IllustrateStream(c *gin.Context) {
	// Headers go out before any generation work; the client sees a live
	// connection immediately even though the first frame arrives later.
	emitter := sse.NewWriter(c.Writer)

	var req story.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = emitter.Emit(story.EventError, story.ErrorPayload{Error: "invalid request payload: " + err.Error()})
		_ = emitter.Emit(story.EventDone, story.DonePayload{Message: story.DoneMessage})
		emitter.Close()
		return
	}

	// Fatal errors were already reported on the stream itself
	_ = h.orchestrator.Run(c.Request.Context(), &req, emitter)
}
