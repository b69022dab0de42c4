package period_test

import (
	"testing"

	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/internal/domain/period"
	. "github.com/smartystreets/goconvey/convey"
)

func TestControllerRegulation(t *testing.T) {
	Convey("Given a new controller", t, func() {
		c := period.New()

		Convey("Then it starts in period one with three pending records", func() {
			So(c.Phase(), ShouldEqual, model.Period1)
			So(c.Complete(), ShouldBeFalse)
			records := c.Records()
			So(records, ShouldHaveLength, 3)
			for _, r := range records {
				So(r.Completed, ShouldBeFalse)
			}
		})

		Convey("When advancing through the first period", func() {
			next, err := c.Advance(model.Score{Home: 5, Away: 1})

			Convey("Then period two begins and the delta is recorded", func() {
				So(err, ShouldBeNil)
				So(next, ShouldEqual, model.Period2)
				records := c.Records()
				So(records[0], ShouldResemble, model.PeriodRecord{
					Phase: model.Period1, Home: 5, Away: 1, Completed: true,
				})
			})
		})

		Convey("When a later period scores on top of the first", func() {
			_, _ = c.Advance(model.Score{Home: 5, Away: 1})
			_, err := c.Advance(model.Score{Home: 6, Away: 4})

			Convey("Then each record holds only its own delta", func() {
				So(err, ShouldBeNil)
				So(c.Phase(), ShouldEqual, model.Period3)
				records := c.Records()
				So(records[1], ShouldResemble, model.PeriodRecord{
					Phase: model.Period2, Home: 1, Away: 3, Completed: true,
				})
			})
		})

		Convey("When period three ends with a lead", func() {
			_, _ = c.Advance(model.Score{Home: 2})
			_, _ = c.Advance(model.Score{Home: 2, Away: 2})
			next, err := c.Advance(model.Score{Home: 4, Away: 2})

			Convey("Then the match completes without overtime", func() {
				So(err, ShouldBeNil)
				So(next, ShouldEqual, model.Complete)
				So(c.Complete(), ShouldBeTrue)
				So(c.Records(), ShouldHaveLength, 3)
			})
		})
	})
}

func TestControllerOvertime(t *testing.T) {
	tied := model.Score{Home: 3, Away: 3}

	Convey("Given regulation ending tied", t, func() {
		c := period.New()
		_, _ = c.Advance(tied)
		_, _ = c.Advance(tied)
		next, err := c.Advance(tied)

		Convey("Then sudden victory begins with its own record", func() {
			So(err, ShouldBeNil)
			So(next, ShouldEqual, model.SuddenVictory)
			records := c.Records()
			So(records, ShouldHaveLength, 4)
			So(records[3].Phase, ShouldEqual, model.SuddenVictory)
		})

		Convey("When overtime phases stay tied", func() {
			_, _ = c.Advance(tied) // sudden victory -> tiebreaker 1
			So(c.Phase(), ShouldEqual, model.Tiebreaker1)
			_, _ = c.Advance(tied)
			So(c.Phase(), ShouldEqual, model.Tiebreaker2)
			_, _ = c.Advance(tied)
			So(c.Phase(), ShouldEqual, model.UltimateTiebreaker)

			Convey("Then a tied ultimate tiebreaker cannot advance", func() {
				_, err := c.Advance(tied)
				So(err, ShouldEqual, period.ErrNeedsDecision)
				So(c.Phase(), ShouldEqual, model.UltimateTiebreaker)
			})

			Convey("Then a lead in the ultimate tiebreaker completes the match", func() {
				next, err := c.Advance(model.Score{Home: 4, Away: 3})
				So(err, ShouldBeNil)
				So(next, ShouldEqual, model.Complete)
			})
		})

		Convey("When an overtime phase breaks the tie", func() {
			next, err := c.Advance(model.Score{Home: 5, Away: 3})

			Convey("Then the match completes", func() {
				So(err, ShouldBeNil)
				So(next, ShouldEqual, model.Complete)
			})
		})
	})

	Convey("Given a completed controller", t, func() {
		c := period.New()
		_, _ = c.Advance(model.Score{Home: 1})
		_, _ = c.Advance(model.Score{Home: 1})
		_, _ = c.Advance(model.Score{Home: 1})
		So(c.Complete(), ShouldBeTrue)

		Convey("Then advancing again fails", func() {
			_, err := c.Advance(model.Score{Home: 1})
			So(err, ShouldEqual, period.ErrAlreadyComplete)
		})
	})
}

func TestControllerTerminate(t *testing.T) {
	Convey("Given a match in period two", t, func() {
		c := period.New()
		_, _ = c.Advance(model.Score{Home: 2, Away: 1})

		Convey("When a fall terminates the match", func() {
			phase := c.Terminate(model.Score{Home: 2, Away: 1})

			Convey("Then the controller jumps to complete", func() {
				So(phase, ShouldEqual, model.Complete)
				So(c.Complete(), ShouldBeTrue)
			})

			Convey("And period two is closed with its delta", func() {
				records := c.Records()
				So(records[1].Phase, ShouldEqual, model.Period2)
				So(records[1].Completed, ShouldBeTrue)
				So(records[1].Home, ShouldEqual, 0)
				So(records[1].Away, ShouldEqual, 0)
			})

			Convey("And period three was never entered", func() {
				records := c.Records()
				So(records[2].Completed, ShouldBeFalse)
			})
		})

		Convey("When terminating twice", func() {
			_ = c.Terminate(model.Score{Home: 2, Away: 1})
			phase := c.Terminate(model.Score{Home: 2, Away: 1})

			Convey("Then the second call is a no-op", func() {
				So(phase, ShouldEqual, model.Complete)
			})
		})
	})
}
