package story

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
	storysvc "github.com/georgem7154/once-upon-a-prompt/internal/service/story"
)

// Illustrate generates all images for a story and responds once with the
// complete document. Same orchestration as the stream route, buffered.
// @Summary      Illustrate a story
// @Description  Generates the cover and one image per scene, returned as a single JSON document
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        request  body      object         true  "Story request"
// @Success      200      {object}  map[string]interface{}  "title, cover and scenes"
// @Failure      400      {object}  ErrorResponse  "invalid request or moderated content"
// @Router       /api/v1/stories/illustrate [post]
func (h *Handler) Illustrate(c *gin.Context) {
	var req story.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	collector := &storysvc.Collector{}
	if err := h.orchestrator.Run(c.Request.Context(), &req, collector); err != nil {
		var validationErr *story.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40002,
				Message: validationErr.Reason,
			})
		case errors.Is(err, storysvc.ErrModerated):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    40003,
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Code:    50001,
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, collector.Document())
}
