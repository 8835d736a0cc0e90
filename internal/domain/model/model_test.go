package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rinklabs/contractcomps/internal/domain/model"
	"github.com/rinklabs/contractcomps/internal/domain/season"
	"github.com/rinklabs/contractcomps/internal/domain/table"
	"github.com/smartystreets/goconvey/convey"
)

func TestError(t *testing.T) {
	convey.Convey("Given a typed domain error", t, func() {
		err := model.Errorf(model.KindNotFound, "similarity.neighbors", "9", "contract not indexed")
		wrapped := fmt.Errorf("recommend: %w", err)

		convey.Convey("Then it matches its sentinel kind only", func() {
			convey.So(errors.Is(wrapped, model.ErrNotFound), convey.ShouldBeTrue)
			convey.So(errors.Is(wrapped, model.ErrInvalidInput), convey.ShouldBeFalse)
			convey.So(model.KindOf(wrapped), convey.ShouldEqual, model.KindNotFound)
			convey.So(err.Error(), convey.ShouldEqual, "similarity.neighbors: not_found [9]: contract not indexed")
		})

		convey.Convey("Then it converts to a batch entry", func() {
			ce := model.NewContractError("9", wrapped)
			convey.So(ce.ContractID, convey.ShouldEqual, "9")
			convey.So(ce.Kind, convey.ShouldEqual, "not_found")
			convey.So(ce.Message, convey.ShouldContainSubstring, "contract not indexed")
		})
	})

	convey.Convey("Given foreign errors", t, func() {
		convey.So(model.KindOf(errors.New("disk")), convey.ShouldEqual, model.KindUnknown)
		convey.So(model.KindOf(fmt.Errorf("x: %w", model.ErrComputation)), convey.ShouldEqual, model.KindComputation)
	})
}

func TestContractRowsFromTable(t *testing.T) {
	convey.Convey("Given a contract table keyed by nhl_id", t, func() {
		tbl := table.MustNew("contract_id", "nhl_id", "season", "lastName", "cap_hit")
		convey.So(tbl.Append("9.0", "8471214", "2018-2019", "Ovechkin", "9538462"), convey.ShouldBeNil)
		convey.So(tbl.Append("9", "8471214", "20192020", "Ovechkin", ""), convey.ShouldBeNil)

		rows, err := model.ContractRowsFromTable(tbl)

		convey.Convey("Then ids and seasons are normalized", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(rows, convey.ShouldHaveLength, 2)
			convey.So(rows[0].ContractID, convey.ShouldEqual, "9")
			convey.So(rows[0].PlayerID, convey.ShouldEqual, "8471214")
			convey.So(rows[0].Season, convey.ShouldEqual, season.ID(20182019))
			convey.So(rows[0].CapHit, convey.ShouldEqual, 9538462.0)
			convey.So(rows[1].CapHit, convey.ShouldEqual, 0.0)
		})
	})

	convey.Convey("Given a contract table with a broken season", t, func() {
		tbl := table.MustNew("contract_id", "playerId", "season")
		convey.So(tbl.Append("9", "1", "next year"), convey.ShouldBeNil)

		_, err := model.ContractRowsFromTable(tbl)

		convey.So(errors.Is(err, model.ErrInvalidInput), convey.ShouldBeTrue)
		convey.So(errors.Is(err, season.ErrMalformed), convey.ShouldBeTrue)
	})

	convey.Convey("Given a table without a season column", t, func() {
		_, err := model.ContractRowsFromTable(table.MustNew("contract_id", "playerId"))
		convey.So(model.KindOf(err), convey.ShouldEqual, model.KindInvalidInput)
	})
}
