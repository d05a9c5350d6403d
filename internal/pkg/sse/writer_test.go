package sse

import (
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWriter(t *testing.T) {
	Convey("Writer speaks the event-stream wire format", t, func() {
		Convey("construction sends the stream headers immediately", func() {
			rec := httptest.NewRecorder()
			NewWriter(rec)

			So(rec.Code, ShouldEqual, 200)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "text/event-stream")
			So(rec.Header().Get("Cache-Control"), ShouldEqual, "no-cache")
			So(rec.Header().Get("Connection"), ShouldEqual, "keep-alive")
			So(rec.Header().Get("X-Accel-Buffering"), ShouldEqual, "no")
			So(rec.Flushed, ShouldBeTrue)
		})

		Convey("Emit writes one complete frame per event", func() {
			rec := httptest.NewRecorder()
			w := NewWriter(rec)

			err := w.Emit("scene", map[string]string{"key": "scene1"})
			So(err, ShouldBeNil)
			So(rec.Body.String(), ShouldEqual, "event: scene\ndata: {\"key\":\"scene1\"}\n\n")
		})

		Convey("frames preserve emission order", func() {
			rec := httptest.NewRecorder()
			w := NewWriter(rec)

			So(w.Emit("cover", map[string]string{"title": "T"}), ShouldBeNil)
			So(w.Emit("done", map[string]string{"message": "ok"}), ShouldBeNil)

			body := rec.Body.String()
			So(body, ShouldEqual,
				"event: cover\ndata: {\"title\":\"T\"}\n\n"+
					"event: done\ndata: {\"message\":\"ok\"}\n\n")
		})

		Convey("Emit after Close fails with ErrClosed", func() {
			rec := httptest.NewRecorder()
			w := NewWriter(rec)
			w.Close()

			err := w.Emit("scene", map[string]string{})
			So(err, ShouldEqual, ErrClosed)
			So(rec.Body.Len(), ShouldEqual, 0)
		})

		Convey("unmarshalable payloads return an error without writing", func() {
			rec := httptest.NewRecorder()
			w := NewWriter(rec)

			err := w.Emit("scene", make(chan int))
			So(err, ShouldNotBeNil)
			So(rec.Body.Len(), ShouldEqual, 0)
		})
	})
}
