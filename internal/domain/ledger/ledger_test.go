package ledger_test

import (
	"testing"
	"time"

	"github.com/okian/grapple/internal/domain/ledger"
	"github.com/okian/grapple/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLedgerRecord(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		l := ledger.New()

		Convey("Then it starts with no events and a zero score", func() {
			So(l.Len(), ShouldEqual, 0)
			So(l.CurrentScore(), ShouldResemble, model.Score{})
		})

		Convey("When recording a takedown for home", func() {
			ev, err := l.Record(model.Home, model.Takedown, model.Period1)

			Convey("Then the event carries the fixed point value", func() {
				So(err, ShouldBeNil)
				So(ev.ID, ShouldNotBeEmpty)
				So(ev.Points, ShouldEqual, 2)
				So(ev.AwardedTo, ShouldEqual, model.Home)
				So(ev.Snapshot, ShouldResemble, model.Score{Home: 2})
				So(l.CurrentScore(), ShouldResemble, model.Score{Home: 2})
			})
		})

		Convey("When recording a penalty charged to home", func() {
			ev, err := l.Record(model.Home, model.Penalty, model.Period1)

			Convey("Then the point is credited to away", func() {
				So(err, ShouldBeNil)
				So(ev.Side, ShouldEqual, model.Home)
				So(ev.AwardedTo, ShouldEqual, model.Away)
				So(l.CurrentScore(), ShouldResemble, model.Score{Away: 1})
			})
		})

		Convey("When recording a stalling call against away", func() {
			_, err := l.Record(model.Away, model.Stalling, model.Period2)

			Convey("Then home gets the point", func() {
				So(err, ShouldBeNil)
				So(l.CurrentScore(), ShouldResemble, model.Score{Home: 1})
			})
		})

		Convey("When recording an unknown action", func() {
			_, err := l.Record(model.Home, model.ActionType("slam"), model.Period1)

			Convey("Then it is rejected without appending", func() {
				So(err, ShouldEqual, ledger.ErrUnknownAction)
				So(l.Len(), ShouldEqual, 0)
			})
		})

		Convey("When recording with an invalid side", func() {
			_, err := l.Record(model.Side("red"), model.Takedown, model.Period1)

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, ledger.ErrUnknownAction)
				So(l.Len(), ShouldEqual, 0)
			})
		})

		Convey("When recording with options", func() {
			ts := time.Date(2026, 2, 14, 19, 30, 0, 0, time.UTC)
			ev, err := l.Record(model.Home, model.Takedown, model.Period1,
				ledger.WithPositionLabel("neutral"),
				ledger.WithVideoSeconds(123.4),
				ledger.WithTimestamp(ts),
			)

			Convey("Then the annotations are applied", func() {
				So(err, ShouldBeNil)
				So(ev.Position, ShouldEqual, "neutral")
				So(ev.VideoSeconds, ShouldEqual, 123.4)
				So(ev.TS, ShouldResemble, ts)
			})
		})
	})

	Convey("Given a sequence of events", t, func() {
		l := ledger.New()
		_, _ = l.Record(model.Home, model.Takedown, model.Period1)
		_, _ = l.Record(model.Away, model.Escape, model.Period1)
		_, _ = l.Record(model.Home, model.NearFall3, model.Period2)
		_, _ = l.Record(model.Home, model.Penalty, model.Period2)

		Convey("Then the score is the sum with infractions inverted", func() {
			So(l.CurrentScore(), ShouldResemble, model.Score{Home: 5, Away: 2})
		})

		Convey("Then snapshots are cumulative per event", func() {
			events := l.Events()
			So(events, ShouldHaveLength, 4)
			So(events[0].Snapshot, ShouldResemble, model.Score{Home: 2})
			So(events[1].Snapshot, ShouldResemble, model.Score{Home: 2, Away: 1})
			So(events[2].Snapshot, ShouldResemble, model.Score{Home: 5, Away: 1})
			So(events[3].Snapshot, ShouldResemble, model.Score{Home: 5, Away: 2})
		})

		Convey("Then EventsForPhase filters in order", func() {
			p2 := l.EventsForPhase(model.Period2)
			So(p2, ShouldHaveLength, 2)
			So(p2[0].Action, ShouldEqual, model.NearFall3)
			So(p2[1].Action, ShouldEqual, model.Penalty)
		})
	})
}

func TestLedgerUndo(t *testing.T) {
	Convey("Given a ledger with two events", t, func() {
		l := ledger.New()
		_, _ = l.Record(model.Home, model.Takedown, model.Period1)
		_, _ = l.Record(model.Away, model.Reversal, model.Period1)

		Convey("When undoing the last event", func() {
			removed, err := l.UndoLast()

			Convey("Then the score reverts to the prior snapshot", func() {
				So(err, ShouldBeNil)
				So(removed.Action, ShouldEqual, model.Reversal)
				So(l.Len(), ShouldEqual, 1)
				So(l.CurrentScore(), ShouldResemble, model.Score{Home: 2})
			})
		})

		Convey("When undoing until the ledger empties", func() {
			_, _ = l.UndoLast()
			_, err := l.UndoLast()

			Convey("Then the score is zero again", func() {
				So(err, ShouldBeNil)
				So(l.Len(), ShouldEqual, 0)
				So(l.CurrentScore(), ShouldResemble, model.Score{})
			})

			Convey("And one more undo fails", func() {
				_, err := l.UndoLast()
				So(err, ShouldEqual, ledger.ErrEmptyLedger)
			})
		})

		Convey("When an event is re-recorded after undo", func() {
			_, _ = l.UndoLast()
			_, err := l.Record(model.Away, model.Reversal, model.Period1)

			Convey("Then the score matches the original sequence", func() {
				So(err, ShouldBeNil)
				So(l.CurrentScore(), ShouldResemble, model.Score{Home: 2, Away: 2})
			})
		})
	})
}

func TestLedgerTerminalAndStats(t *testing.T) {
	Convey("Given a ledger ending in a fall", t, func() {
		l := ledger.New()
		_, _ = l.Record(model.Home, model.Takedown, model.Period1)
		_, _ = l.Record(model.Away, model.Escape, model.Period1)
		_, _ = l.Record(model.Home, model.Fall, model.Period2)

		Convey("Then LastTerminal finds the fall", func() {
			ev, ok := l.LastTerminal()
			So(ok, ShouldBeTrue)
			So(ev.Action, ShouldEqual, model.Fall)
		})

		Convey("And the fall added no points", func() {
			So(l.CurrentScore(), ShouldResemble, model.Score{Home: 2, Away: 1})
		})
	})

	Convey("Given a ledger with no terminal event", t, func() {
		l := ledger.New()
		_, _ = l.Record(model.Home, model.Takedown, model.Period1)

		Convey("Then LastTerminal reports none", func() {
			_, ok := l.LastTerminal()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a varied event mix", t, func() {
		l := ledger.New()
		_, _ = l.Record(model.Home, model.Takedown, model.Period1)
		_, _ = l.Record(model.Home, model.Takedown, model.Period2)
		_, _ = l.Record(model.Home, model.NearFall2, model.Period2)
		_, _ = l.Record(model.Home, model.Stalling, model.Period3)
		_, _ = l.Record(model.Away, model.Escape, model.Period2)
		_, _ = l.Record(model.Away, model.RidingTime, model.Period3)

		Convey("Then stats aggregate per side", func() {
			home := l.Stats(model.Home)
			So(home.Takedowns, ShouldEqual, 2)
			So(home.NearFall2, ShouldEqual, 1)
			So(home.Stalls, ShouldEqual, 1)
			So(home.RidingTimePoint, ShouldBeFalse)
			So(home.Points, ShouldEqual, 6)

			away := l.Stats(model.Away)
			So(away.Escapes, ShouldEqual, 1)
			So(away.RidingTimePoint, ShouldBeTrue)
			// Escape, riding time, and home's stalling call.
			So(away.Points, ShouldEqual, 3)
		})
	})
}
