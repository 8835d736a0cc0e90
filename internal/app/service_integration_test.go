package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/rinklabs/contractcomps/internal/adapters/report"
	"github.com/rinklabs/contractcomps/internal/adapters/storage"
	service "github.com/rinklabs/contractcomps/internal/app"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/internal/domain/model"
	summary "github.com/rinklabs/contractcomps/internal/domain/report"
	"github.com/rinklabs/contractcomps/internal/domain/table"
	"github.com/rinklabs/contractcomps/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

// seededStore returns a local store holding a generated league.
func seededStore(t *testing.T) storage.ObjectStore {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	ds, err := sampledata.Generate(sampledata.Config{Players: 40, Seasons: 5, FirstSeason: 2017, Seed: 5})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := sampledata.Write(context.Background(), store, config.New().Keys, ds); err != nil {
		t.Fatalf("write: %v", err)
	}
	return store
}

func readTable(ctx context.Context, store storage.ObjectStore, key string) *table.Table {
	data, err := store.Get(ctx, key)
	So(err, ShouldBeNil)
	t, err := table.ReadCSV(bytes.NewReader(data))
	So(err, ShouldBeNil)
	return t
}

func TestPipeline_EndToEnd(t *testing.T) {
	Convey("Given a store seeded with a synthetic league", t, func() {
		ctx := context.Background()
		store := seededStore(t)
		keys := config.New().Keys
		ids := 0
		svc := service.New(store,
			service.WithNeighbors(5),
			service.WithWorkerCount(3),
			service.WithRunIDs(func() string {
				ids++
				return "run-" + string(rune('0'+ids))
			}),
		)

		Convey("When every table job runs in order", func() {
			_, err := svc.Derive(ctx)
			So(err, ShouldBeNil)
			_, err = svc.Merge(ctx)
			So(err, ShouldBeNil)
			_, err = svc.Skaters(ctx)
			So(err, ShouldBeNil)
			_, err = svc.Advanced(ctx)
			So(err, ShouldBeNil)
			sum, err := svc.Aggregate(ctx)
			So(err, ShouldBeNil)

			Convey("Then the derived table carries rate columns", func() {
				derived := readTable(ctx, store, keys.Derived)
				So(derived.Has("goals_per_60"), ShouldBeTrue)
				So(derived.Has("power_play_point_percentage"), ShouldBeTrue)
			})

			Convey("Then the merged table joined contract columns", func() {
				merged := readTable(ctx, store, keys.Merged)
				So(merged.Has(model.ColContractID), ShouldBeTrue)
				So(merged.Has(model.ColCapHit), ShouldBeTrue)
				So(merged.Len(), ShouldEqual, 40*5)
				So(merged.Has(model.ColSituation), ShouldBeFalse)
			})

			Convey("Then the MoneyPuck years are combined with encoded seasons", func() {
				skaters := readTable(ctx, store, keys.Skaters)
				So(skaters.Len(), ShouldEqual, 40*5*len(sampledata.Situations))
				So(skaters.Value(0, model.ColSeason), ShouldEqual, "20172018")
			})

			Convey("Then the advanced table has one row per contract season and situation", func() {
				advanced := readTable(ctx, store, keys.MergedAdvanced)
				So(advanced.Len(), ShouldEqual, 40*5*len(sampledata.Situations))
				So(advanced.Has("onIce_xGoalsPercentage"), ShouldBeTrue)
				So(advanced.Has(model.ColContractID), ShouldBeTrue)
			})

			Convey("Then every contract has one weighted row", func() {
				So(sum.Status, ShouldEqual, "ok")
				So(sum.Failures, ShouldBeEmpty)
				avg := readTable(ctx, store, keys.AverageStats)
				vectors, err := features.VectorsFromTable(avg, features.Skater)
				So(err, ShouldBeNil)
				So(len(vectors), ShouldEqual, avg.Len())
				So(avg.Has("goals_per_game"+features.WeightedSuffix), ShouldBeTrue)
			})

			Convey("And recommend runs for a known and an unknown contract", func() {
				sum, err := svc.Recommend(ctx, []string{"1000", "1000.0", "999999"})
				So(err, ShouldBeNil)

				Convey("Then duplicate ids are collapsed", func() {
					So(sum.ContractIDs, ShouldResemble, []string{"1000", "999999"})
				})

				Convey("Then the unknown contract is a collected failure", func() {
					So(len(sum.Failures), ShouldEqual, 1)
					So(sum.Failures[0].ContractID, ShouldEqual, "999999")
					So(sum.Failures[0].Kind, ShouldEqual, "not_found")
				})

				Convey("Then the report holds the neighbours' successors", func() {
					So(sum.RowsWritten, ShouldBeBetweenOrEqual, 1, 4)
					reportKey := sum.Outputs[0]
					So(reportKey, ShouldEndWith, ".csv")
					out := readTable(ctx, store, reportKey)
					So(out.Columns(), ShouldResemble, summary.Columns)
					for i := 0; i < out.Len(); i++ {
						So(out.Value(i, summary.ColQuery), ShouldEqual, "1000")
						So(out.Value(i, summary.ColNeighbor), ShouldNotEqual, "1000")
						So(out.Value(i, summary.ColOutcome), ShouldBeIn, []string{"successor", "no_successor"})
					}
				})

				Convey("Then the run summary is stored as JSON", func() {
					data, err := store.Get(ctx, sum.Outputs[len(sum.Outputs)-1])
					So(err, ShouldBeNil)
					var stored service.Summary
					So(json.Unmarshal(data, &stored), ShouldBeNil)
					So(stored.Status, ShouldEqual, "ok")
					So(stored.Job, ShouldEqual, service.JobRecommend)
					So(stored.Neighbors, ShouldEqual, 5)
					So(len(stored.Failures), ShouldEqual, 1)
				})
			})
		})
	})
}

func TestPipeline_AllWithParquet(t *testing.T) {
	Convey("Given a service writing parquet reports", t, func() {
		ctx := context.Background()
		store := seededStore(t)
		svc := service.New(store,
			service.WithEncoder(report.Parquet{}),
			service.WithFeatureSet(features.Legacy),
			service.WithRunIDs(func() string { return "all-run" }),
		)

		Convey("When the whole pipeline runs for two contracts", func() {
			sum, err := svc.Run(ctx, service.JobAll, []string{"1001", "1002"})

			Convey("Then every stage wrote its output", func() {
				So(err, ShouldBeNil)
				So(sum.FeatureSet, ShouldEqual, "legacy")
				keys := config.New().Keys
				So(sum.Outputs, ShouldContain, keys.Derived)
				So(sum.Outputs, ShouldContain, keys.Merged)
				So(sum.Outputs, ShouldContain, keys.Skaters)
				So(sum.Outputs, ShouldContain, keys.MergedAdvanced)
				So(sum.Outputs, ShouldContain, keys.AverageStats)
				So(sum.Outputs, ShouldContain, keys.Reports+"all-run.parquet")
			})

			Convey("Then the parquet report reads back", func() {
				data, err := store.Get(ctx, config.New().Keys.Reports+"all-run.parquet")
				So(err, ShouldBeNil)
				file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
				So(err, ShouldBeNil)
				// Two queries with k-1 neighbours each, deduplicated per query.
				So(file.NumRows(), ShouldBeBetweenOrEqual, 2, 2*9)
			})
		})

		Convey("When the whole pipeline runs without contract ids", func() {
			sum, err := svc.Run(ctx, service.JobAll, nil)

			Convey("Then recommend is skipped", func() {
				So(err, ShouldBeNil)
				for _, key := range sum.Outputs {
					So(strings.HasSuffix(key, ".parquet"), ShouldBeFalse)
				}
			})
		})
	})
}
