package table_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rinklabs/contractcomps/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadCSV(t *testing.T) {
	Convey("Given a CSV document with gaps", t, func() {
		doc := "contract_id,playerId,goals\n9,8471214,40\n10,8471215,\n11,8471216\n"

		tbl, err := table.ReadCSV(strings.NewReader(doc))

		Convey("Then rows are padded and cells addressable by column", func() {
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 3)
			So(tbl.Columns(), ShouldResemble, []string{"contract_id", "playerId", "goals"})
			So(tbl.Value(0, "contract_id"), ShouldEqual, "9")

			v, ok := tbl.Float(0, "goals")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 40.0)

			_, ok = tbl.Float(1, "goals")
			So(ok, ShouldBeFalse)
			_, ok = tbl.Float(2, "goals")
			So(ok, ShouldBeFalse)
			So(tbl.FloatOrZero(2, "goals"), ShouldEqual, 0.0)
			_, ok = tbl.Float(0, "assists")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given malformed documents", t, func() {
		_, err := table.ReadCSV(strings.NewReader(""))
		So(errors.Is(err, table.ErrEmptyDocument), ShouldBeTrue)

		_, err = table.ReadCSV(strings.NewReader("a,a\n1,2\n"))
		So(errors.Is(err, table.ErrDuplicateColumn), ShouldBeTrue)

		_, err = table.ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
		So(errors.Is(err, table.ErrRowWidth), ShouldBeTrue)
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a table built in memory", t, func() {
		tbl := table.MustNew("contract_id", "cap_hit")
		So(tbl.Append("9", "8000000"), ShouldBeNil)
		tbl.AppendMap(map[string]string{"contract_id": "10", "ignored": "x"})
		tbl.SetFloat(1, "cap_hit", math.Inf(1))
		tbl.SetFloat(0, "weight", 0.7)

		Convey("When written and read back", func() {
			var buf bytes.Buffer
			So(tbl.WriteCSV(&buf), ShouldBeNil)
			back, err := table.ReadCSV(&buf)

			Convey("Then the content survives and non-finite numbers are blank", func() {
				So(err, ShouldBeNil)
				So(back.Columns(), ShouldResemble, []string{"contract_id", "cap_hit", "weight"})
				So(back.Value(1, "contract_id"), ShouldEqual, "10")
				So(back.Value(1, "cap_hit"), ShouldEqual, "")
				So(back.Value(0, "weight"), ShouldEqual, "0.7")
			})
		})
	})
}

func TestFilterAndDrop(t *testing.T) {
	Convey("Given a stats table with situations", t, func() {
		tbl := table.MustNew("playerId", "situation", "goals")
		So(tbl.Append("1", "all", "10"), ShouldBeNil)
		So(tbl.Append("1", "5on4", "3"), ShouldBeNil)
		So(tbl.Append("2", "all", "7"), ShouldBeNil)

		Convey("When filtering to the all-situations rows", func() {
			all := tbl.Where("situation", "all")

			So(all.Len(), ShouldEqual, 2)
			So(all.Value(1, "playerId"), ShouldEqual, "2")
			So(tbl.Len(), ShouldEqual, 3)
		})

		Convey("When dropping a column", func() {
			out := tbl.Drop("situation")

			So(out.Has("situation"), ShouldBeFalse)
			So(out.Record(1), ShouldResemble, []string{"1", "3"})
		})
	})
}
