package derive_test

import (
	"errors"
	"testing"

	"github.com/rinklabs/contractcomps/internal/domain/derive"
	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDerive(t *testing.T) {
	Convey("Given a stats table with a regular and an empty season", t, func() {
		stats := table.MustNew("playerId", "gamesPlayed", "timeOnIcePerGame", "goals", "assists", "points",
			"shots", "evGoals", "evPoints", "ppGoals", "ppPoints", "shGoals", "shPoints", "faceoffWinPct")
		So(stats.Append("1", "10", "20", "10", "20", "30", "100", "8", "20", "2", "10", "0", "0", ""), ShouldBeNil)
		So(stats.Append("2", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0.52"), ShouldBeNil)

		out, err := derive.Derive(stats)
		So(err, ShouldBeNil)

		Convey("Then per-game and per-60 rates are added", func() {
			v, ok := out.Float(0, "goals_per_game")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1.0)
			So(out.FloatOrZero(0, "points_per_game"), ShouldEqual, 3.0)
			So(out.FloatOrZero(0, "power_play_points_per_game"), ShouldEqual, 1.0)
			So(out.FloatOrZero(0, "goals_per_60"), ShouldAlmostEqual, 0.5, 1e-12)
			So(out.FloatOrZero(0, "shots_per_60"), ShouldAlmostEqual, 5.0, 1e-12)
		})

		Convey("Then shares are taken over goals and points", func() {
			So(out.FloatOrZero(0, "power_play_point_percentage"), ShouldAlmostEqual, 1.0/3, 1e-12)
			So(out.FloatOrZero(0, "even_strength_goal_percentage"), ShouldAlmostEqual, 0.8, 1e-12)
			So(out.Value(0, "short_handed_goal_percentage"), ShouldEqual, "0")
		})

		Convey("Then a zero denominator leaves the cell empty", func() {
			So(out.Value(1, "goals_per_game"), ShouldEqual, "")
			So(out.Value(1, "goals_per_60"), ShouldEqual, "")
			So(out.Value(1, "power_play_point_percentage"), ShouldEqual, "")
		})

		Convey("Then a missing faceoff percentage becomes 0", func() {
			So(out.Value(0, "faceoffWinPct"), ShouldEqual, "0")
			So(out.Value(1, "faceoffWinPct"), ShouldEqual, "0.52")
		})

		Convey("Then the input table is left untouched", func() {
			So(stats.Has("goals_per_game"), ShouldBeFalse)
			for _, c := range derive.Columns() {
				So(out.Has(c), ShouldBeTrue)
			}
		})
	})

	Convey("Given a table without gamesPlayed", t, func() {
		_, err := derive.Derive(table.MustNew("playerId", "goals"))
		So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
	})
}
