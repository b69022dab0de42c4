package outcome_test

import (
	"testing"
	"time"

	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/internal/domain/outcome"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveFromScore(t *testing.T) {
	Convey("Given a match decided on points", t, func() {
		Convey("When the gap is under eight", func() {
			out, err := outcome.Resolve(model.Score{Home: 7, Away: 3}, nil)

			Convey("Then it is a decision for the leader", func() {
				So(err, ShouldBeNil)
				So(out.Winner, ShouldEqual, model.Home)
				So(out.WinType, ShouldEqual, model.WinDecision)
				So(out.PinTime, ShouldBeNil)
			})
		})

		Convey("When the gap is eight to fourteen", func() {
			out, err := outcome.Resolve(model.Score{Home: 2, Away: 12}, nil)

			Convey("Then it is a major decision", func() {
				So(err, ShouldBeNil)
				So(out.Winner, ShouldEqual, model.Away)
				So(out.WinType, ShouldEqual, model.WinMajorDecision)
			})
		})

		Convey("When the gap is fifteen or more", func() {
			out, err := outcome.Resolve(model.Score{Home: 18, Away: 3}, nil)

			Convey("Then it is a technical fall", func() {
				So(err, ShouldBeNil)
				So(out.WinType, ShouldEqual, model.WinTechFall)
			})
		})

		Convey("When the score is tied with no terminal event", func() {
			_, err := outcome.Resolve(model.Score{Home: 4, Away: 4}, nil)

			Convey("Then there is no winner", func() {
				So(err, ShouldEqual, outcome.ErrNoWinner)
			})
		})
	})
}

func TestResolveFromTerminal(t *testing.T) {
	ts := time.Date(2026, 2, 14, 19, 42, 10, 0, time.UTC)

	Convey("Given a terminal event", t, func() {
		Convey("When the event is a fall", func() {
			ev := model.ScoringEvent{Side: model.Away, Action: model.Fall, Phase: model.Period2, TS: ts}
			// The pinned wrestler may even be ahead on points.
			out, err := outcome.Resolve(model.Score{Home: 10, Away: 2}, &ev)

			Convey("Then the pinning side wins regardless of score", func() {
				So(err, ShouldBeNil)
				So(out.Winner, ShouldEqual, model.Away)
				So(out.WinType, ShouldEqual, model.WinPin)
				So(out.PhaseEnded, ShouldEqual, model.Period2)
				So(out.PinTime, ShouldNotBeNil)
				So(*out.PinTime, ShouldResemble, ts)
			})
		})

		Convey("When the event is a disqualification", func() {
			ev := model.ScoringEvent{Side: model.Home, Action: model.Disqualification, Phase: model.Period3}
			out, err := outcome.Resolve(model.Score{Home: 9, Away: 1}, &ev)

			Convey("Then the opponent of the charged side wins", func() {
				So(err, ShouldBeNil)
				So(out.Winner, ShouldEqual, model.Away)
				So(out.WinType, ShouldEqual, model.WinDisqualification)
				So(out.PinTime, ShouldBeNil)
			})
		})

		Convey("When the event is a forfeit", func() {
			ev := model.ScoringEvent{Side: model.Away, Action: model.Forfeit, Phase: model.Period1}
			out, err := outcome.Resolve(model.Score{}, &ev)

			Convey("Then home wins by forfeit", func() {
				So(err, ShouldBeNil)
				So(out.Winner, ShouldEqual, model.Home)
				So(out.WinType, ShouldEqual, model.WinForfeit)
			})
		})

		Convey("When the event is a medical forfeit", func() {
			ev := model.ScoringEvent{Side: model.Home, Action: model.MedicalForfeit, Phase: model.Period2}
			out, err := outcome.Resolve(model.Score{Home: 6, Away: 6}, &ev)

			Convey("Then away wins by medical forfeit", func() {
				So(err, ShouldBeNil)
				So(out.Winner, ShouldEqual, model.Away)
				So(out.WinType, ShouldEqual, model.WinMedicalForfeit)
			})
		})

		Convey("When the event is not terminal", func() {
			ev := model.ScoringEvent{Side: model.Home, Action: model.Takedown}
			_, err := outcome.Resolve(model.Score{Home: 2}, &ev)

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "does not end a match")
			})
		})
	})
}

func TestTechFall(t *testing.T) {
	Convey("Given the tech-fall stopping condition", t, func() {
		Convey("Then it triggers at a fifteen point gap", func() {
			So(outcome.TechFall(model.Score{Home: 15, Away: 0}), ShouldBeTrue)
			So(outcome.TechFall(model.Score{Home: 3, Away: 18}), ShouldBeTrue)
			So(outcome.TechFall(model.Score{Home: 14, Away: 0}), ShouldBeFalse)
			So(outcome.TechFall(model.Score{Home: 10, Away: 10}), ShouldBeFalse)
		})
	})
}

func TestDescribe(t *testing.T) {
	winner := model.Wrestler{ID: "w1", Name: "Smith", Team: "Central"}

	Convey("Given result lines for display", t, func() {
		Convey("When won on points", func() {
			out := model.Outcome{Winner: model.Home, WinType: model.WinTechFall}
			line := outcome.Describe(out, winner, model.Score{Home: 18, Away: 3})

			Convey("Then the score is part of the line", func() {
				So(line, ShouldEqual, "Smith (Central) won by tech fall, 18-3")
			})
		})

		Convey("When won by pin", func() {
			ts := time.Date(2026, 2, 14, 19, 4, 33, 0, time.UTC)
			out := model.Outcome{Winner: model.Home, WinType: model.WinPin, PinTime: &ts}
			line := outcome.Describe(out, winner, model.Score{Home: 4, Away: 2})

			Convey("Then the pin time is part of the line", func() {
				So(line, ShouldEqual, "Smith (Central) won by fall at 19:04:33")
			})
		})

		Convey("When won by forfeit", func() {
			out := model.Outcome{Winner: model.Home, WinType: model.WinForfeit}
			line := outcome.Describe(out, winner, model.Score{})

			Convey("Then no score is shown", func() {
				So(line, ShouldEqual, "Smith (Central) won by forfeit")
			})
		})
	})
}
