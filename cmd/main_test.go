package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	service "github.com/rinklabs/contractcomps/internal/app"
	"github.com/rinklabs/contractcomps/internal/adapters/storage"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/internal/sampledata"
	"github.com/rinklabs/contractcomps/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func seed(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocal(root)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := sampledata.Generate(sampledata.Config{Players: 20, Seasons: 4, FirstSeason: 2018, Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := sampledata.Write(context.Background(), store, config.New().Keys, ds); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRun(t *testing.T) {
	convey.Convey("Given a local data root with sample tables", t, func() {
		root := seed(t)
		_ = os.Setenv("CONTRACTS_STORAGE_ROOT", root)
		_ = os.Setenv("CONTRACTS_NEIGHBORS", "4")
		defer func() {
			_ = os.Unsetenv("CONTRACTS_STORAGE_ROOT")
			_ = os.Unsetenv("CONTRACTS_NEIGHBORS")
			_ = os.Unsetenv("CONTRACTS_PUSHGATEWAY_URL")
			_ = os.Unsetenv(config.EnvFile)
		}()
		ctx := context.Background()

		convey.Convey("When running the whole pipeline from flags", func() {
			var out bytes.Buffer
			err := run(ctx, []string{"-job", service.JobAll, "-contracts", "1001,1002"}, &out)

			convey.Convey("Then the summary is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var sum service.Summary
				convey.So(json.Unmarshal(out.Bytes(), &sum), convey.ShouldBeNil)
				convey.So(sum.Status, convey.ShouldEqual, "ok")
				convey.So(sum.Neighbors, convey.ShouldEqual, 4)
				convey.So(sum.ContractIDs, convey.ShouldResemble, []string{"1001", "1002"})
			})
		})

		convey.Convey("When a Pushgateway is configured", func() {
			var pushes int32
			gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&pushes, 1)
				w.WriteHeader(http.StatusOK)
			}))
			defer gw.Close()
			_ = os.Setenv("CONTRACTS_PUSHGATEWAY_URL", gw.URL)

			var out bytes.Buffer
			err := run(ctx, []string{"-job", service.JobDerive}, &out)

			convey.Convey("Then metrics are pushed once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(atomic.LoadInt32(&pushes), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the job is unknown", func() {
			var out bytes.Buffer
			err := run(ctx, []string{"-job", "score"}, &out)

			convey.Convey("Then it fails without a summary", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(out.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			var out bytes.Buffer
			err := run(ctx, []string{"-config", "/non/existent/contracts.yaml"}, &out)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
			})
		})

		convey.Convey("When a flag is malformed", func() {
			err := run(ctx, []string{"-nope"}, &bytes.Buffer{})

			convey.Convey("Then parsing fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
