package story

import (
	"github.com/georgem7154/once-upon-a-prompt/internal/ai"
	httputil "github.com/georgem7154/once-upon-a-prompt/internal/pkg/http"
	storyrepo "github.com/georgem7154/once-upon-a-prompt/internal/repository/story"
	storysvc "github.com/georgem7154/once-upon-a-prompt/internal/service/story"
)

// ErrorResponse is the shared error envelope
type ErrorResponse = httputil.ErrorResponse

// Handler serves the story endpoints: drafting text, illustrating and
// reading back saved fragments
type Handler struct {
	orchestrator *storysvc.Orchestrator
	writer       *ai.Writer
	fragments    storyrepo.FragmentRepository
}

// NewHandler creates the handler. writer may be nil when no LLM is
// configured (the text endpoint then responds 503); fragments may be nil
// when no story store is configured.
func NewHandler(orchestrator *storysvc.Orchestrator, writer *ai.Writer, fragments storyrepo.FragmentRepository) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		writer:       writer,
		fragments:    fragments,
	}
}
