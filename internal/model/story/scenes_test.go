package story

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSceneKeys(t *testing.T) {
	Convey("SceneKeys extracts and orders scene keys", t, func() {
		Convey("numeric suffixes sort naturally", func() {
			storyObj := map[string]string{
				"title":   "The Lost Map",
				"scene10": "ten",
				"scene2":  "two",
				"scene1":  "one",
			}
			So(SceneKeys(storyObj), ShouldResemble, []string{"scene1", "scene2", "scene10"})
		})

		Convey("the title key is never a scene", func() {
			storyObj := map[string]string{
				"title":  "Solo",
				"scene1": "only scene",
			}
			So(SceneKeys(storyObj), ShouldResemble, []string{"scene1"})
		})

		Convey("keys without a numeric suffix sort after numbered ones", func() {
			storyObj := map[string]string{
				"sceneFinale": "end",
				"scene3":      "three",
				"scene1":      "one",
			}
			So(SceneKeys(storyObj), ShouldResemble, []string{"scene1", "scene3", "sceneFinale"})
		})

		Convey("a story with no scenes yields no keys", func() {
			So(SceneKeys(map[string]string{"title": "Empty"}), ShouldBeEmpty)
			So(SceneKeys(nil), ShouldBeEmpty)
		})

		Convey("non-scene keys are ignored", func() {
			storyObj := map[string]string{
				"title":    "Mixed",
				"author":   "nobody",
				"scene1":   "one",
				"epilogue": "after",
			}
			So(SceneKeys(storyObj), ShouldResemble, []string{"scene1"})
		})
	})
}
