package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "github.com/georgem7154/once-upon-a-prompt/internal/pkg/http"
)

// ListFragments returns the saved fragments of one story in insertion order.
// @Summary      List story fragments
// @Description  Returns the persisted cover and scene records of a story
// @Tags         stories
// @Produce      json
// @Param        user_id   path      string  true  "User ID"
// @Param        story_id  path      string  true  "Story ID"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  ErrorResponse  "no fragments"
// @Failure      503       {object}  ErrorResponse  "no story store configured"
// @Router       /api/v1/users/{user_id}/stories/{story_id}/fragments [get]
func (h *Handler) ListFragments(c *gin.Context) {
	if h.fragments == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    50302,
			Message: "story persistence is not configured",
		})
		return
	}

	userID := c.Param("user_id")
	storyID := c.Param("story_id")
	if userID == "" || storyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "user_id and story_id are required",
		})
		return
	}

	fragments, err := h.fragments.FindByStory(c.Request.Context(), userID, storyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50003,
			Message: "failed to load fragments",
			Detail:  err.Error(),
		})
		return
	}
	if len(fragments) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    40401,
			Message: "no fragments found for story",
		})
		return
	}

	c.JSON(http.StatusOK, httputil.NewSuccessResponse("success", gin.H{
		"story_id":  storyID,
		"fragments": fragments,
		"count":     len(fragments),
	}))
}
