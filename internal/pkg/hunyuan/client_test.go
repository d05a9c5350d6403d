package hunyuan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeSpace emulates the Gradio surface: /config handshake, two predict
// endpoints and the generated file downloads
type fakeSpace struct {
	srv        *httptest.Server
	handshakes int32
	failFirst  bool
	generates  int32
	refines    int32
}

func newFakeSpace(failFirstHandshake bool) *fakeSpace {
	fs := &fakeSpace{failFirst: failFirstHandshake}

	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&fs.handshakes, 1)
		if fs.failFirst && n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/run/generate_image", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fs.generates, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]string{"url": fs.srv.URL + "/files/base.png"}},
		})
	})
	mux.HandleFunc("/run/refine_image", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fs.refines, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]string{"url": fs.srv.URL + "/files/final.png"}},
		})
	})
	mux.HandleFunc("/files/base.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("base-image-bytes"))
	})
	mux.HandleFunc("/files/final.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("final-image-bytes"))
	})

	fs.srv = httptest.NewServer(mux)
	return fs
}

func TestClient_GenerateImage(t *testing.T) {
	ctx := context.Background()

	Convey("GenerateImage runs the two-stage pipeline", t, func() {
		fs := newFakeSpace(false)
		defer fs.srv.Close()

		client := NewClient(&Config{BaseURL: fs.srv.URL})
		image, err := client.GenerateImage(ctx, "a calm meadow", 42)

		So(err, ShouldBeNil)
		So(string(image), ShouldEqual, "final-image-bytes")
		So(atomic.LoadInt32(&fs.generates), ShouldEqual, 1)
		So(atomic.LoadInt32(&fs.refines), ShouldEqual, 1)
	})

	Convey("the handshake runs once across calls after it succeeds", t, func() {
		fs := newFakeSpace(false)
		defer fs.srv.Close()

		client := NewClient(&Config{BaseURL: fs.srv.URL})
		_, err := client.GenerateImage(ctx, "prompt one", 1)
		So(err, ShouldBeNil)
		_, err = client.GenerateImage(ctx, "prompt two", 2)
		So(err, ShouldBeNil)

		So(atomic.LoadInt32(&fs.handshakes), ShouldEqual, 1)
	})

	Convey("a transient handshake failure is retried on the next call", t, func() {
		fs := newFakeSpace(true)
		defer fs.srv.Close()

		client := NewClient(&Config{BaseURL: fs.srv.URL})

		_, err := client.GenerateImage(ctx, "prompt", 7)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "status 503")

		image, err := client.GenerateImage(ctx, "prompt", 7)
		So(err, ShouldBeNil)
		So(string(image), ShouldEqual, "final-image-bytes")
		So(atomic.LoadInt32(&fs.handshakes), ShouldEqual, 2)
	})
}
