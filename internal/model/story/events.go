package story

// Stream event names. Exactly one cover (or error tagged "cover") precedes
// all scene events; scenes appear in scene-key order; exactly one done event
// terminates every stream.
const (
	EventCover = "cover"
	EventScene = "scene"
	EventError = "error"
	EventDone  = "done"
)

// CoverKey tags the cover artifact in error events and persistence records
const CoverKey = "cover"

// CoverPayload is the data of a cover event
type CoverPayload struct {
	Title string `json:"title"`
	Image string `json:"image"` // base64-encoded image bytes
}

// ScenePayload is the data of a scene event
type ScenePayload struct {
	Key   string `json:"key"`
	Text  string `json:"text"`
	Image string `json:"image"` // base64-encoded image bytes
}

// ErrorPayload is the data of an error event. Key is empty on fatal
// request-level errors and names the failed item otherwise.
type ErrorPayload struct {
	Key   string `json:"key,omitempty"`
	Error string `json:"error"`
}

// DonePayload is the data of the terminal done event
type DonePayload struct {
	Message string `json:"message"`
}

// DoneMessage is the terminal message sent on every completed stream
const DoneMessage = "All scenes processed."
