package safety

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizer_Sanitize(t *testing.T) {
	Convey("Sanitize redacts denylisted words from prompts", t, func() {
		s := NewSanitizer()

		Convey("clean text passes through unchanged", func() {
			text := "A brave knight rides through the forest."
			So(s.Sanitize(text), ShouldEqual, text)
		})

		Convey("a denylisted word is replaced by the placeholder", func() {
			So(s.Sanitize("the dragon tried to kill the knight"),
				ShouldEqual, "the dragon tried to [redacted] the knight")
		})

		Convey("matching is case-insensitive", func() {
			So(s.Sanitize("Blood everywhere"), ShouldEqual, "[redacted] everywhere")
			So(s.Sanitize("VIOLENCE erupted"), ShouldEqual, "[redacted] erupted")
		})

		Convey("matching is whole-word: substrings survive", func() {
			So(s.Sanitize("she practiced her skill daily"),
				ShouldEqual, "she practiced her skill daily")
			So(s.Sanitize("the bloodhound sniffed the trail"),
				ShouldEqual, "the bloodhound sniffed the trail")
		})

		Convey("multiple occurrences are all replaced", func() {
			So(s.Sanitize("curse upon curse"),
				ShouldEqual, "[redacted] upon [redacted]")
		})

		Convey("sanitizing is idempotent", func() {
			once := s.Sanitize("a naked flame and a curse")
			So(s.Sanitize(once), ShouldEqual, once)
		})

		Convey("empty input yields empty output", func() {
			So(s.Sanitize(""), ShouldEqual, "")
		})
	})
}

func TestSanitizer_CustomDenylist(t *testing.T) {
	Convey("custom denylists", t, func() {
		Convey("an empty denylist returns input unchanged", func() {
			s := NewSanitizerWithDenylist(nil)
			So(s.Sanitize("kill blood naked"), ShouldEqual, "kill blood naked")
		})

		Convey("custom words replace the defaults", func() {
			s := NewSanitizerWithDenylist([]string{"dragon"})
			So(s.Sanitize("the dragon tried to kill"),
				ShouldEqual, "the [redacted] tried to kill")
		})
	})
}
