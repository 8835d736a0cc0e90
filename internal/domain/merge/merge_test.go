package merge_test

import (
	"errors"
	"testing"

	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/internal/domain/merge"
	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/season"
	"github.com/rinklabs/contractcomps/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeSeason(t *testing.T) {
	Convey("Given a dashed contract season", t, func() {
		sid, err := merge.NormalizeSeason("2018-2019")
		So(err, ShouldBeNil)
		So(sid, ShouldEqual, season.ID(20182019))

		_, err = merge.NormalizeSeason("next year")
		So(err, ShouldNotBeNil)
	})
}

func TestContracts(t *testing.T) {
	Convey("Given current and historical contract tables", t, func() {
		current := table.MustNew("contract_id", "nhl_id", "season", "cap_hit")
		So(current.Append("2", "8471", "2018-2019", "5000000"), ShouldBeNil)
		historical := table.MustNew("contract_id", "nhl_id", "season", "lastName")
		So(historical.Append("1", "8471", "2016-2017", "Doe"), ShouldBeNil)

		out, err := merge.Contracts(current, historical)
		So(err, ShouldBeNil)

		Convey("Then rows are concatenated over the union of columns", func() {
			So(out.Columns(), ShouldResemble, []string{"contract_id", "nhl_id", "season", "cap_hit", "lastName"})
			So(out.Len(), ShouldEqual, 2)
			So(out.Value(0, "season"), ShouldEqual, "20182019")
			So(out.Value(1, "season"), ShouldEqual, "20162017")
			So(out.Value(1, "cap_hit"), ShouldEqual, "")
			So(out.Value(1, "lastName"), ShouldEqual, "Doe")
		})
	})

	Convey("Given a contract table with a broken season", t, func() {
		bad := table.MustNew("contract_id", "season")
		So(bad.Append("7", "soon"), ShouldBeNil)

		_, err := merge.Contracts(bad)
		So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)

		_, err = merge.Contracts()
		So(errors.Is(err, merge.ErrNoTables), ShouldBeTrue)
	})
}

func TestStatsWithContracts(t *testing.T) {
	Convey("Given stats for two players and contracts for one", t, func() {
		stats := table.MustNew("playerId", "seasonId", "situation", "goals")
		So(stats.Append("8471", "20182019", "all", "30"), ShouldBeNil)
		So(stats.Append("8471", "20182019", "5on4", "9"), ShouldBeNil)
		So(stats.Append("8471", "20172018", "all", "25"), ShouldBeNil)
		So(stats.Append("9000", "20182019", "all", "2"), ShouldBeNil)

		contracts := table.MustNew("contract_id", "nhl_id", "season", "cap_hit")
		So(contracts.Append("2", "8471.0", "2018-2019", "5000000"), ShouldBeNil)
		So(contracts.Append("1", "8471", "20172018", "900000"), ShouldBeNil)

		out, err := merge.StatsWithContracts(stats, contracts)
		So(err, ShouldBeNil)

		Convey("Then only matching player seasons survive, in stats order", func() {
			So(out.Len(), ShouldEqual, 3)
			So(out.Columns(), ShouldResemble, []string{"playerId", "seasonId", "situation", "goals", "contract_id", "nhl_id", "season", "cap_hit"})
			So(out.Value(0, "contract_id"), ShouldEqual, "2")
			So(out.Value(1, "situation"), ShouldEqual, "5on4")
			So(out.Value(2, "contract_id"), ShouldEqual, "1")
			So(out.Value(2, "cap_hit"), ShouldEqual, "900000")
		})
	})

	Convey("Given a stats table without seasonId", t, func() {
		_, err := merge.StatsWithContracts(table.MustNew("playerId"), table.MustNew("nhl_id", "season"))
		So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
	})
}

func TestConcat(t *testing.T) {
	Convey("Given tables with overlapping headers", t, func() {
		a := table.MustNew("playerId", "goals")
		So(a.Append("1", "3"), ShouldBeNil)
		b := table.MustNew("assists", "playerId")
		So(b.Append("4", "2"), ShouldBeNil)

		out, err := merge.Concat(a, b)
		So(err, ShouldBeNil)
		So(out.Columns(), ShouldResemble, []string{"playerId", "goals", "assists"})
		So(out.Record(0), ShouldResemble, []string{"1", "3", ""})
		So(out.Record(1), ShouldResemble, []string{"2", "", "4"})

		_, err = merge.Concat()
		So(errors.Is(err, merge.ErrNoTables), ShouldBeTrue)
	})
}

func TestSkaters(t *testing.T) {
	Convey("Given two MoneyPuck years", t, func() {
		y2018 := table.MustNew("playerId", "season", "situation", "onIce_corsiPercentage")
		So(y2018.Append("8471", "2018", "all", "0.52"), ShouldBeNil)
		So(y2018.Append("8471", "2018", "5on4", "0.61"), ShouldBeNil)
		y2019 := table.MustNew("playerId", "season", "situation", "onIce_xGoalsPercentage")
		So(y2019.Append("8471", "2019", "all", "0.49"), ShouldBeNil)

		out, err := merge.Skaters(y2018, y2019)
		So(err, ShouldBeNil)

		Convey("Then rows are stacked with encoded seasons", func() {
			So(out.Len(), ShouldEqual, 3)
			So(out.Value(0, "season"), ShouldEqual, "20182019")
			So(out.Value(2, "season"), ShouldEqual, "20192020")
			So(out.Value(2, "onIce_corsiPercentage"), ShouldEqual, "")
			So(out.Value(2, "onIce_xGoalsPercentage"), ShouldEqual, "0.49")
		})
	})

	Convey("Given a year with a broken season", t, func() {
		bad := table.MustNew("playerId", "season")
		So(bad.Append("8471", "2018-2019"), ShouldBeNil)

		_, err := merge.Skaters(bad)
		So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		So(errors.Is(err, season.ErrMalformed), ShouldBeTrue)

		_, err = merge.Skaters(table.MustNew("season"))
		So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
	})
}

func TestAdvanced(t *testing.T) {
	Convey("Given contract stats and MoneyPuck rows", t, func() {
		stats := table.MustNew("playerId", "seasonId", "name", "position", "season", "contract_id", "goals")
		So(stats.Append("8471", "20182019", "Doe", "C", "20182019", "2", "30"), ShouldBeNil)
		So(stats.Append("8471", "20172018", "Doe", "C", "20172018", "1", "25"), ShouldBeNil)
		So(stats.Append("9000", "20182019", "Roe", "D", "20182019", "3", "2"), ShouldBeNil)

		skaters := table.MustNew("playerId", "season", "name", "position", "situation", "onIce_xGoalsPercentage")
		So(skaters.Append("8471", "20182019", "J. Doe", "L", "all", "0.55"), ShouldBeNil)
		So(skaters.Append("8471", "20182019", "J. Doe", "L", "5on4", "0.70"), ShouldBeNil)
		So(skaters.Append("9000", "20172018", "Roe", "D", "all", "0.40"), ShouldBeNil)

		out, err := merge.Advanced(stats, skaters)
		So(err, ShouldBeNil)

		Convey("Then each matching season gains one row per situation", func() {
			So(out.Len(), ShouldEqual, 2)
			So(out.Value(0, "situation"), ShouldEqual, "all")
			So(out.Value(1, "situation"), ShouldEqual, "5on4")
			So(out.Value(1, "onIce_xGoalsPercentage"), ShouldEqual, "0.70")
			So(out.Value(0, "contract_id"), ShouldEqual, "2")
		})

		Convey("Then position and season come from MoneyPuck, other shared columns from the stats", func() {
			So(out.Columns(), ShouldResemble, []string{
				"playerId", "seasonId", "name", "contract_id", "goals",
				"season", "position", "situation", "onIce_xGoalsPercentage",
			})
			So(out.Value(0, "name"), ShouldEqual, "Doe")
			So(out.Value(0, "position"), ShouldEqual, "L")
		})

		Convey("Then the input tables are left untouched", func() {
			So(stats.Has("position"), ShouldBeTrue)
			So(stats.Len(), ShouldEqual, 3)
		})

		Convey("Then the joined table feeds aggregation", func() {
			set := features.Set{Name: "test", Columns: []string{"goals", "onIce_xGoalsPercentage"}}
			records, failures, err := features.RecordsFromTable(out, set)
			So(err, ShouldBeNil)
			So(failures, ShouldBeEmpty)
			So(records, ShouldHaveLength, 1)
			So(records[0].Values, ShouldResemble, []float64{30, 0.55})
		})
	})

	Convey("Given a MoneyPuck table without season", t, func() {
		_, err := merge.Advanced(table.MustNew("playerId", "seasonId"), table.MustNew("playerId"))
		So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
	})
}

func TestContractInfo(t *testing.T) {
	set := features.Set{Name: "test", Columns: []string{"goals"}}

	Convey("Given a merged table and vectors for one of two contracts", t, func() {
		merged := table.MustNew("contract_id", "playerId", "seasonId", "goals")
		So(merged.Append("1", "10", "20182019", "5"), ShouldBeNil)
		So(merged.Append("1", "10", "20192020", "7"), ShouldBeNil)
		So(merged.Append("2", "20", "20192020", "1"), ShouldBeNil)

		vectors := []features.Vector{{ContractID: "1", PlayerID: "10", Seasons: 2, Values: []float64{6.4}}}

		out, err := merge.ContractInfo(merged, vectors, set)
		So(err, ShouldBeNil)

		Convey("Then each contract keeps its first row plus the weighted columns", func() {
			So(out.Len(), ShouldEqual, 2)
			So(out.Value(0, "seasonId"), ShouldEqual, "20182019")
			So(out.Value(0, "goals"), ShouldEqual, "5")
			So(out.Value(0, "goals_y"), ShouldEqual, "6.4")
			So(out.Value(0, "seasons_weighted"), ShouldEqual, "2")
			So(out.Value(1, "goals_y"), ShouldEqual, "")
		})

		Convey("Then reading it back yields only the weighted contract", func() {
			back, err := features.VectorsFromTable(out, set)
			So(err, ShouldBeNil)
			So(back, ShouldHaveLength, 1)
			So(back[0].Values, ShouldResemble, []float64{6.4})
		})
	})
}
