package imagegen

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/safety"
)

// stubGenerator records every call and fails the first failures attempts
type stubGenerator struct {
	failures int
	calls    int
	prompts  []string
	seeds    []int64
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, seed int64, gc GenContext) ([]byte, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.seeds = append(s.seeds, seed)
	if s.calls <= s.failures {
		return nil, errors.New("provider unavailable")
	}
	return []byte("image-bytes"), nil
}

func TestRetryingGenerator(t *testing.T) {
	Convey("RetryingGenerator bounds retries and sanitizes once", t, func() {
		ctx := context.Background()
		gc := GenContext{UserID: "u", StoryID: "s", ItemKey: "cover"}

		Convey("a first-attempt success makes exactly one call", func() {
			stub := &stubGenerator{}
			r := NewRetryingGenerator(stub, nil, DefaultPolicy)

			image, err := r.Generate(ctx, "a calm meadow", 42, gc)
			So(err, ShouldBeNil)
			So(image, ShouldResemble, []byte("image-bytes"))
			So(stub.calls, ShouldEqual, 1)
		})

		Convey("transient failures are retried up to the budget", func() {
			stub := &stubGenerator{failures: 2}
			r := NewRetryingGenerator(stub, nil, Policy{MaxRetries: 2})

			image, err := r.Generate(ctx, "a calm meadow", 42, gc)
			So(err, ShouldBeNil)
			So(image, ShouldNotBeEmpty)
			So(stub.calls, ShouldEqual, 3)
		})

		Convey("exhausting the budget returns an aggregated error", func() {
			stub := &stubGenerator{failures: 10}
			r := NewRetryingGenerator(stub, nil, Policy{MaxRetries: 2})

			_, err := r.Generate(ctx, "a calm meadow", 42, gc)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "after 3 attempts")
			So(stub.calls, ShouldEqual, 3)
		})

		Convey("MaxRetries of zero means a single attempt", func() {
			stub := &stubGenerator{failures: 1}
			r := NewRetryingGenerator(stub, nil, Policy{MaxRetries: 0})

			_, err := r.Generate(ctx, "a calm meadow", 42, gc)
			So(err, ShouldNotBeNil)
			So(stub.calls, ShouldEqual, 1)
		})

		Convey("the prompt is sanitized before the first attempt and reused", func() {
			stub := &stubGenerator{failures: 1}
			r := NewRetryingGenerator(stub, safety.NewSanitizer(), Policy{MaxRetries: 1})

			_, err := r.Generate(ctx, "a knight about to kill a dragon", 7, gc)
			So(err, ShouldBeNil)
			So(stub.calls, ShouldEqual, 2)
			for _, p := range stub.prompts {
				So(p, ShouldEqual, "a knight about to [redacted] a dragon")
			}
		})

		Convey("the seed is passed through unchanged on every attempt", func() {
			stub := &stubGenerator{failures: 2}
			r := NewRetryingGenerator(stub, nil, Policy{MaxRetries: 2})

			_, err := r.Generate(ctx, "prompt", 987654321, gc)
			So(err, ShouldBeNil)
			for _, s := range stub.seeds {
				So(s, ShouldEqual, 987654321)
			}
		})

		Convey("a cancelled context stops the backoff wait", func() {
			stub := &stubGenerator{failures: 10}
			r := NewRetryingGenerator(stub, nil, Policy{MaxRetries: 5, Backoff: 100 * time.Millisecond})

			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := r.Generate(cctx, "prompt", 1, gc)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(stub.calls, ShouldEqual, 1)
		})
	})
}
