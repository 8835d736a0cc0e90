package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	summary "github.com/rinklabs/contractcomps/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRows() []summary.Row {
	return []summary.Row{
		{Query: "6131", ContractID: "200", PlayerID: "8471", LastName: "Doe", Value: 21e6, Length: 3,
			CapHit: 7e6, AAV: 7e6, AvgPercentCap: 9, SeasonSpan: "20182019 - 20202021",
			Neighbor: "100", Distance: 0.25, Outcome: "successor"},
		{Query: "6131", ContractID: "300", PlayerID: "9000", SeasonSpan: "20202021 - 20202021",
			Neighbor: "300", Distance: 0.5, Outcome: "no_successor"},
	}
}

func TestEncoders(t *testing.T) {
	Convey("Given summary rows", t, func() {
		rows := sampleRows()

		Convey("When encoded as CSV", func() {
			enc, err := ForFormat("csv")
			So(err, ShouldBeNil)
			data, err := enc.Encode(rows)
			So(err, ShouldBeNil)

			Convey("Then the header and rows are present", func() {
				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldStartWith, "query_contract_id,contract_id,playerId")
				So(lines[1], ShouldContainSubstring, "20182019 - 20202021")
				So(enc.Ext(), ShouldEqual, ".csv")
			})
		})

		Convey("When encoded as parquet", func() {
			enc, err := ForFormat("PARQUET")
			So(err, ShouldBeNil)
			data, err := enc.Encode(rows)
			So(err, ShouldBeNil)

			Convey("Then the rows read back unchanged", func() {
				back, err := parquet.Read[parquetRow](bytes.NewReader(data), int64(len(data)))
				So(err, ShouldBeNil)
				So(back, ShouldHaveLength, 2)
				So(back[0], ShouldResemble, toParquet(rows[0]))
				So(back[1].Outcome, ShouldEqual, "no_successor")
				So(enc.Ext(), ShouldEqual, ".parquet")
			})
		})

		Convey("When the format is unknown", func() {
			_, err := ForFormat("xlsx")
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})
	})
}
