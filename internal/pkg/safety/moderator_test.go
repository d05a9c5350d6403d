package safety

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModerator_IsClean(t *testing.T) {
	Convey("IsClean gates story text on blocked terms", t, func() {
		m := NewModerator()

		Convey("an ordinary story passes", func() {
			So(m.IsClean("Once upon a time a fox befriended a hedgehog in the autumn woods."), ShouldBeTrue)
		})

		Convey("a blocked term rejects the text", func() {
			So(m.IsClean("a tale of gore and ruin"), ShouldBeFalse)
			So(m.IsClean("the villain planned an act of terrorism"), ShouldBeFalse)
		})

		Convey("matching is case-insensitive", func() {
			So(m.IsClean("NSFW content ahead"), ShouldBeFalse)
		})

		Convey("matching is whole-word", func() {
			// "nudge" contains no blocked word as a whole word
			So(m.IsClean("she gave him a gentle nudge"), ShouldBeTrue)
		})

		Convey("sanitizer denylist words alone do not reject", func() {
			// these are redacted from prompts, not grounds for rejection
			So(m.IsClean("the curse turned his blood cold"), ShouldBeTrue)
		})
	})
}

func TestModerator_CustomBlocklist(t *testing.T) {
	Convey("custom blocklists", t, func() {
		Convey("an empty list accepts everything", func() {
			m := NewModeratorWithBlocklist(nil)
			So(m.IsClean("gore torture nsfw"), ShouldBeTrue)
		})

		Convey("custom words replace the defaults", func() {
			m := NewModeratorWithBlocklist([]string{"pumpkin"})
			So(m.IsClean("a story about gore"), ShouldBeTrue)
			So(m.IsClean("a story about a pumpkin"), ShouldBeFalse)
		})
	})
}
