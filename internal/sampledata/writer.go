package sampledata

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/rinklabs/contractcomps/internal/adapters/storage"
	"github.com/rinklabs/contractcomps/internal/config"
	"github.com/rinklabs/contractcomps/internal/domain/table"
	"github.com/rinklabs/contractcomps/pkg/logger"
)

type object struct {
	key string
	t   *table.Table
}

// Write stores the dataset under the stats, contract and per-year skater
// keys of keys.
func Write(ctx context.Context, store storage.ObjectStore, keys config.Keys, ds Dataset) error {
	objects := []object{
		{keys.Stats, ds.Stats},
		{keys.CurrentContracts, ds.Current},
		{keys.HistoricalContracts, ds.Historical},
	}
	years := make([]int, 0, len(ds.Skaters))
	for year := range ds.Skaters {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		objects = append(objects, object{keys.SkaterYear(year), ds.Skaters[year]})
	}

	for _, o := range objects {
		var buf bytes.Buffer
		if err := o.t.WriteCSV(&buf); err != nil {
			return fmt.Errorf("encode %s: %w", o.key, err)
		}
		if err := store.Put(ctx, o.key, buf.Bytes(), storage.ContentType(o.key)); err != nil {
			return fmt.Errorf("write %s: %w", o.key, err)
		}
		logger.Get().Info(ctx, "wrote sample table", logger.String("key", o.key), logger.Int("rows", o.t.Len()))
	}
	return nil
}
