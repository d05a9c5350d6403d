package story

import (
	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
)

// Event is one collected (event, data) pair
type Event struct {
	Name string
	Data any
}

// Collector is an Emitter that buffers events in memory. It backs the
// non-streaming endpoint, which runs the same orchestration as the stream
// route and responds with a single JSON document, and it is the observer
// used by orchestrator tests.
type Collector struct {
	Events []Event
	Closed bool
}

// Emit records one event
func (c *Collector) Emit(event string, data any) error {
	c.Events = append(c.Events, Event{Name: event, Data: data})
	return nil
}

// Close marks the stream terminated
func (c *Collector) Close() {
	c.Closed = true
}

// Document assembles the buffered events into the response shape of the
// non-streaming endpoint: {title, cover, sceneN...}, with per-item errors
// in place of images
func (c *Collector) Document() map[string]any {
	doc := make(map[string]any)
	for _, ev := range c.Events {
		switch payload := ev.Data.(type) {
		case story.CoverPayload:
			doc["title"] = payload.Title
			doc[story.CoverKey] = map[string]any{"image": payload.Image}
		case story.ScenePayload:
			doc[payload.Key] = map[string]any{"text": payload.Text, "image": payload.Image}
		case story.ErrorPayload:
			if payload.Key != "" {
				doc[payload.Key] = map[string]any{"error": payload.Error}
			}
		}
	}
	return doc
}
