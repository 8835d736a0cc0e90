package report_test

import (
	"testing"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/report"
	"github.com/rinklabs/contractcomps/internal/domain/similarity"
	"github.com/rinklabs/contractcomps/internal/domain/succession"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given two neighbours that resolve to contracts", t, func() {
		next := succession.Resolution{
			Outcome:  succession.OutcomeSuccessor,
			Source:   "100",
			Contract: "200",
			Rows: []model.ContractRow{
				{ContractID: "200", PlayerID: "8471", LastName: "Doe", Season: 20192020, Value: 21e6, Length: 3, CapHit: 7e6, AAV: 7e6, PercentOfCap: 8.0},
				{ContractID: "200", PlayerID: "8471", LastName: "Doe", Season: 20182019, Value: 21e6, Length: 3, CapHit: 7e6, AAV: 7e6, PercentOfCap: 9.0},
				{ContractID: "200", PlayerID: "8471", LastName: "Doe", Season: 20202021, Value: 21e6, Length: 3, CapHit: 7e6, AAV: 7e6, PercentOfCap: 10.0},
			},
		}
		own := succession.Resolution{
			Outcome:  succession.OutcomeNoSuccessor,
			Source:   "300",
			Contract: "300",
			Rows:     []model.ContractRow{{ContractID: "300", PlayerID: "9000", Season: 20202021, PercentOfCap: 1.5}},
		}
		entries := []report.Entry{
			{Query: "q", Neighbor: similarity.Neighbor{ContractID: "100", Distance: 0.5}, Resolution: next},
			{Query: "q", Neighbor: similarity.Neighbor{ContractID: "300", Distance: 0.75}, Resolution: own},
			{Query: "q", Neighbor: similarity.Neighbor{ContractID: "101", Distance: 0.9}, Resolution: next},
		}

		rows := report.Summarize(entries)

		Convey("Then each resolved contract appears once, nearest neighbour first", func() {
			So(rows, ShouldHaveLength, 2)
			So(rows[0].ContractID, ShouldEqual, "200")
			So(rows[0].Neighbor, ShouldEqual, "100")
			So(rows[0].Outcome, ShouldEqual, "successor")
			So(rows[1].Outcome, ShouldEqual, "no_successor")
		})

		Convey("Then terms come from the first row and the cap share is averaged", func() {
			So(rows[0].LastName, ShouldEqual, "Doe")
			So(rows[0].CapHit, ShouldEqual, 7e6)
			So(rows[0].AvgPercentCap, ShouldAlmostEqual, 9.0, 1e-12)
			So(rows[0].SeasonSpan, ShouldEqual, "20182019 - 20202021")
			So(rows[1].SeasonSpan, ShouldEqual, "20202021 - 20202021")
		})

		Convey("Then the table has the summary header", func() {
			tbl := report.ToTable(rows)
			So(tbl.Columns(), ShouldResemble, report.Columns)
			So(tbl.Len(), ShouldEqual, 2)
			So(tbl.Value(0, "cap_hit"), ShouldEqual, "7000000")
			So(tbl.Value(1, "distance"), ShouldEqual, "0.750000")
		})
	})
}
