package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "github.com/georgem7154/once-upon-a-prompt/internal/pkg/http"
)

// GenerateTextRequest asks the LLM for a story draft
type GenerateTextRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	Genre    string `json:"genre" binding:"required"`
	Tone     string `json:"tone" binding:"required"`
	Audience string `json:"audience" binding:"required"`
	Scenes   int    `json:"scenes,omitempty"` // defaults to 3
}

// GenerateText drafts story text: a title plus numbered scenes, in the same
// shape the illustration endpoints consume.
// @Summary      Generate story text
// @Description  Drafts a story (title + scene1..sceneN) from a premise via the configured LLM
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateTextRequest  true  "Draft request"
// @Success      200      {object}  map[string]string    "story object"
// @Failure      400      {object}  ErrorResponse        "request error"
// @Failure      503      {object}  ErrorResponse        "no LLM configured"
// @Router       /api/v1/stories/generate [post]
func (h *Handler) GenerateText(c *gin.Context) {
	if h.writer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    50301,
			Message: "story text generation is not configured",
		})
		return
	}

	var req GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	storyObj, err := h.writer.WriteStory(c.Request.Context(), req.Prompt, req.Genre, req.Tone, req.Audience, req.Scenes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50002,
			Message: "failed to generate story text",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", storyObj))
}
