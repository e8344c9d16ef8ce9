package verdict_test

import (
	"math"
	"testing"

	"github.com/okian/archer/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given the default classifier", t, func() {
		Convey("When classifying scores at and around the boundaries", func() {
			cases := []struct {
				score int
				want  verdict.Status
			}{
				{900, verdict.StatusReady},
				{750, verdict.StatusReady},
				{749, verdict.StatusAlmost},
				{600, verdict.StatusAlmost},
				{599, verdict.StatusNotReady},
				{540, verdict.StatusNotReady},
				{0, verdict.StatusNotReady},
			}

			Convey("Then lower bounds are inclusive", func() {
				for _, tc := range cases {
					So(verdict.Classify(tc.score).Status, ShouldEqual, tc.want)
				}
			})
		})

		Convey("When the score is outside the theoretical range", func() {
			Convey("Then classification still succeeds", func() {
				So(verdict.Classify(-50).Status, ShouldEqual, verdict.StatusNotReady)
				So(verdict.Classify(math.MinInt).Status, ShouldEqual, verdict.StatusNotReady)
				So(verdict.Classify(10_000).Status, ShouldEqual, verdict.StatusReady)
				So(verdict.Classify(math.MaxInt).Status, ShouldEqual, verdict.StatusReady)
			})
		})

		Convey("When a verdict is produced", func() {
			v := verdict.Classify(760)

			Convey("Then it echoes the score and carries the tier presentation", func() {
				So(v.Score, ShouldEqual, 760)
				So(v.Label, ShouldEqual, "Tournament Ready")
				So(v.ColorClass, ShouldEqual, "text-green-600 border-green-600 bg-green-50")
				So(v.Icon, ShouldEqual, "🟢")
			})

			Convey("And the other tiers carry their own labels", func() {
				So(verdict.Classify(600).Label, ShouldEqual, "Almost Ready")
				So(verdict.Classify(600).Icon, ShouldEqual, "🟡")
				So(verdict.Classify(100).Label, ShouldEqual, "Not Ready")
				So(verdict.Classify(100).ColorClass, ShouldEqual, "text-red-600 border-red-600 bg-red-50")
			})
		})

		Convey("When sweeping every integer across the range", func() {
			Convey("Then exactly one tier matches and tiers never go back up", func() {
				prev := verdict.StatusReady
				rank := map[verdict.Status]int{
					verdict.StatusReady:    0,
					verdict.StatusAlmost:   1,
					verdict.StatusNotReady: 2,
				}
				for s := 1000; s >= -100; s-- {
					got := verdict.Classify(s).Status
					_, known := rank[got]
					So(known, ShouldBeTrue)
					So(rank[got], ShouldBeGreaterThanOrEqualTo, rank[prev])
					prev = got
				}
			})
		})
	})
}

func TestClassifierOptions(t *testing.T) {
	Convey("Given custom thresholds", t, func() {
		c := verdict.NewClassifier(verdict.WithThresholds(80, 50))

		Convey("Then they drive classification", func() {
			ready, almost := c.Thresholds()
			So(ready, ShouldEqual, 80)
			So(almost, ShouldEqual, 50)
			So(c.Classify(80).Status, ShouldEqual, verdict.StatusReady)
			So(c.Classify(50).Status, ShouldEqual, verdict.StatusAlmost)
			So(c.Classify(49).Status, ShouldEqual, verdict.StatusNotReady)
		})
	})

	Convey("Given thresholds that are not strictly ordered", t, func() {
		c := verdict.NewClassifier(verdict.WithThresholds(600, 600))

		Convey("Then the defaults are kept", func() {
			ready, almost := c.Thresholds()
			So(ready, ShouldEqual, verdict.DefaultReadyThreshold)
			So(almost, ShouldEqual, verdict.DefaultAlmostThreshold)
		})
	})

	Convey("Given the tier colours", t, func() {
		So(verdict.StatusReady.Hex(), ShouldEqual, "#16a34a")
		So(verdict.StatusAlmost.Hex(), ShouldEqual, "#ca8a04")
		So(verdict.StatusNotReady.Hex(), ShouldEqual, "#dc2626")
		So(len(verdict.Statuses()), ShouldEqual, 3)
		So(verdict.StatusAlmost.Label(), ShouldEqual, "Almost Ready")
	})
}
