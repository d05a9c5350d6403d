package ai

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseStoryJSON(t *testing.T) {
	Convey("parseStoryJSON decodes model output into a story object", t, func() {
		Convey("plain JSON parses", func() {
			obj, err := parseStoryJSON(`{"title":"T","scene1":"first scene text"}`)
			So(err, ShouldBeNil)
			So(obj["title"], ShouldEqual, "T")
			So(obj["scene1"], ShouldEqual, "first scene text")
		})

		Convey("markdown fences are stripped", func() {
			obj, err := parseStoryJSON("```json\n{\"title\":\"T\",\"scene1\":\"text\"}\n```")
			So(err, ShouldBeNil)
			So(obj["title"], ShouldEqual, "T")
		})

		Convey("bare fences are stripped too", func() {
			obj, err := parseStoryJSON("```\n{\"title\":\"T\"}\n```")
			So(err, ShouldBeNil)
			So(obj["title"], ShouldEqual, "T")
		})

		Convey("surrounding whitespace is tolerated", func() {
			obj, err := parseStoryJSON("\n\n  {\"title\":\"T\"}  \n")
			So(err, ShouldBeNil)
			So(obj["title"], ShouldEqual, "T")
		})

		Convey("non-JSON output is an error", func() {
			_, err := parseStoryJSON("Once upon a time...")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not a story object")
		})
	})
}
