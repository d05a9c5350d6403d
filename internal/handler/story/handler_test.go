package story

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/imagegen"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/safety"
	storysvc "github.com/georgem7154/once-upon-a-prompt/internal/service/story"
)

type stubGenerator struct {
	failItems map[string]bool
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, seed int64, gc imagegen.GenContext) ([]byte, error) {
	if s.failItems[gc.ItemKey] {
		return nil, errors.New("provider exploded")
	}
	return []byte("png:" + gc.ItemKey), nil
}

type stubFragmentRepo struct {
	fragments []*story.Fragment
	err       error
}

func (s *stubFragmentRepo) Upsert(ctx context.Context, fragment *story.Fragment) error { return nil }

func (s *stubFragmentRepo) FindByStory(ctx context.Context, userID, storyID string) ([]*story.Fragment, error) {
	return s.fragments, s.err
}

func (s *stubFragmentRepo) FindByKey(ctx context.Context, userID, storyID, key string) (*story.Fragment, error) {
	return nil, nil
}

func (s *stubFragmentRepo) Delete(ctx context.Context, userID, storyID string) error { return nil }

func newTestRouter(gen imagegen.Generator, fragments *stubFragmentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	orchestrator := storysvc.NewOrchestrator(storysvc.Options{
		Generator: gen,
		Moderator: safety.NewModerator(),
		SeedFn:    func() int64 { return 42 },
	})

	// a typed nil would defeat the handler's nil checks
	var h *Handler
	if fragments != nil {
		h = NewHandler(orchestrator, nil, fragments)
	} else {
		h = NewHandler(orchestrator, nil, nil)
	}

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/stories/generate", h.GenerateText)
	v1.POST("/stories/illustrate", h.Illustrate)
	v1.POST("/stories/illustrate/stream", h.IllustrateStream)
	v1.GET("/users/:user_id/stories/:story_id/fragments", h.ListFragments)
	return r
}

const validBody = `{
	"userId": "user-1",
	"storyId": "story-1",
	"genre": "fantasy",
	"tone": "whimsical",
	"audience": "children",
	"story": {
		"title": "The Clockwork Garden",
		"scene1": "A tiny robot waters the roses at dawn.",
		"scene2": "The roses bloom in brass and copper petals."
	}
}`

var eventNameRe = regexp.MustCompile(`(?m)^event: (\S+)$`)

func streamEvents(body string) []string {
	var names []string
	for _, m := range eventNameRe.FindAllStringSubmatch(body, -1) {
		names = append(names, m[1])
	}
	return names
}

func TestIllustrateStream(t *testing.T) {
	Convey("POST /stories/illustrate/stream", t, func() {
		Convey("streams cover, scenes and done as SSE frames", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate/stream", strings.NewReader(validBody))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "text/event-stream")
			So(streamEvents(rec.Body.String()), ShouldResemble, []string{"cover", "scene", "scene", "done"})
			So(rec.Body.String(), ShouldContainSubstring, "All scenes processed.")
		})

		Convey("malformed JSON yields an error frame followed by done", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate/stream", strings.NewReader("{not json"))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK) // headers were already sent
			So(streamEvents(rec.Body.String()), ShouldResemble, []string{"error", "done"})
		})

		Convey("a moderated story yields an error frame followed by done", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			body := strings.Replace(validBody,
				"A tiny robot waters the roses at dawn.",
				"The villain described his plan with explicit gore.", 1)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate/stream", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(streamEvents(rec.Body.String()), ShouldResemble, []string{"error", "done"})
		})

		Convey("a failed scene becomes an error frame without ending the stream", func() {
			r := newTestRouter(&stubGenerator{failItems: map[string]bool{"scene1": true}}, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate/stream", strings.NewReader(validBody))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(streamEvents(rec.Body.String()), ShouldResemble, []string{"cover", "error", "scene", "done"})
		})
	})
}

func TestIllustrate(t *testing.T) {
	Convey("POST /stories/illustrate", t, func() {
		Convey("responds with the complete story document", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate", strings.NewReader(validBody))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)

			var doc map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &doc), ShouldBeNil)
			So(doc["title"], ShouldEqual, "The Clockwork Garden")
			So(doc["cover"], ShouldNotBeNil)
			So(doc["scene1"], ShouldNotBeNil)
			So(doc["scene2"], ShouldNotBeNil)
		})

		Convey("an invalid request responds 400 with a validation code", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			body := strings.Replace(validBody, `"userId": "user-1",`, `"userId": "",`, 1)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			var resp ErrorResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, 40002)
		})

		Convey("a moderated story responds 400 with a moderation code", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			body := strings.Replace(validBody,
				"A tiny robot waters the roses at dawn.",
				"The villain described his plan with explicit gore.", 1)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/illustrate", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			var resp ErrorResponse
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, 40003)
		})
	})
}

func TestGenerateText(t *testing.T) {
	Convey("POST /stories/generate without an LLM responds 503", t, func() {
		r := newTestRouter(&stubGenerator{}, nil)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stories/generate",
			strings.NewReader(`{"prompt":"a fox","genre":"fable","tone":"gentle","audience":"children"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
	})
}

func TestListFragments(t *testing.T) {
	Convey("GET /users/:user_id/stories/:story_id/fragments", t, func() {
		Convey("responds 503 when no store is configured", func() {
			r := newTestRouter(&stubGenerator{}, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/stories/s1/fragments", nil)
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("responds 404 for an unknown story", func() {
			r := newTestRouter(&stubGenerator{}, &stubFragmentRepo{})
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/stories/s1/fragments", nil)
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("responds with the saved fragments", func() {
			repo := &stubFragmentRepo{fragments: []*story.Fragment{
				{UserID: "u1", StoryID: "s1", Key: "cover"},
				{UserID: "u1", StoryID: "s1", Key: "scene1", Text: "some scene text"},
			}}
			r := newTestRouter(&stubGenerator{}, repo)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/stories/s1/fragments", nil)
			r.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"count":2`)
			So(rec.Body.String(), ShouldContainSubstring, `"scene1"`)
		})
	})
}
