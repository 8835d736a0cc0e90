package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rinklabs/contractcomps/internal/adapters/mq/queue"
	"github.com/rinklabs/contractcomps/internal/adapters/mq/worker"
	"github.com/rinklabs/contractcomps/internal/adapters/storage"
	"github.com/rinklabs/contractcomps/internal/domain/derive"
	"github.com/rinklabs/contractcomps/internal/domain/features"
	"github.com/rinklabs/contractcomps/internal/domain/merge"
	"github.com/rinklabs/contractcomps/internal/domain/model"
	summary "github.com/rinklabs/contractcomps/internal/domain/report"
	"github.com/rinklabs/contractcomps/internal/domain/similarity"
	"github.com/rinklabs/contractcomps/internal/domain/succession"
	"github.com/rinklabs/contractcomps/internal/domain/table"
	"github.com/rinklabs/contractcomps/pkg/logger"
	"github.com/rinklabs/contractcomps/pkg/metrics"
)

func (s *Service) runDerive(ctx context.Context, r *run, _ []string) error {
	stats, err := s.readTable(ctx, r, s.keys.Stats)
	if err != nil {
		return err
	}
	out, err := derive.Derive(stats)
	if err != nil {
		return err
	}
	return s.writeTable(ctx, r, s.keys.Derived, out)
}

func (s *Service) runMerge(ctx context.Context, r *run, _ []string) error {
	stats, err := s.readTable(ctx, r, s.keys.Derived)
	if err != nil {
		return err
	}
	contracts, err := s.contracts(ctx, r)
	if err != nil {
		return err
	}
	merged, err := merge.StatsWithContracts(stats, contracts)
	if err != nil {
		return err
	}
	if merged.Len() == 0 {
		r.log.Warn(ctx, "no stat rows matched a contract season")
	}
	return s.writeTable(ctx, r, s.keys.Merged, merged)
}

func (s *Service) runSkaters(ctx context.Context, r *run, _ []string) error {
	var (
		tables  []*table.Table
		missing int
	)
	for year := s.years.First; year <= s.years.Last; year++ {
		key := s.keys.SkaterYear(year)
		t, err := s.readTable(ctx, r, key)
		if errors.Is(err, storage.ErrNotFound) {
			missing++
			r.log.Debug(ctx, "no skater table for year", logger.Int("year", year), logger.String("key", key))
			continue
		}
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return model.Errorf(model.KindNotFound, "service.skaters", "",
			"%w: no skater tables for %d..%d", storage.ErrNotFound, s.years.First, s.years.Last)
	}
	if missing > 0 {
		r.log.Info(ctx, "skipped missing skater years", logger.Int("missing", missing), logger.Int("found", len(tables)))
	}

	combined, err := merge.Skaters(tables...)
	if err != nil {
		return err
	}
	return s.writeTable(ctx, r, s.keys.Skaters, combined)
}

func (s *Service) runAdvanced(ctx context.Context, r *run, _ []string) error {
	merged, err := s.readTable(ctx, r, s.keys.Merged)
	if err != nil {
		return err
	}
	skaters, err := s.readTable(ctx, r, s.keys.Skaters)
	if err != nil {
		return err
	}
	out, err := merge.Advanced(merged, skaters)
	if err != nil {
		return err
	}
	if out.Len() == 0 {
		r.log.Warn(ctx, "no contract stat rows matched a skater season")
	}
	return s.writeTable(ctx, r, s.keys.MergedAdvanced, out)
}

func (s *Service) runAggregate(ctx context.Context, r *run, _ []string) error {
	merged, err := s.readTable(ctx, r, s.keys.MergedAdvanced)
	if err != nil {
		return err
	}
	records, failures, err := features.RecordsFromTable(merged, s.set)
	if err != nil {
		return err
	}
	r.fail(failures...)

	res := features.Aggregate(records, s.set)
	r.fail(res.Failures...)
	metrics.RecordVectorsBuilt(len(res.Vectors))
	r.log.Info(ctx, "aggregated contracts",
		logger.Int("records", len(records)),
		logger.Int("vectors", len(res.Vectors)),
		logger.Int("failures", len(res.Failures)+len(failures)),
	)

	info, err := merge.ContractInfo(merged, res.Vectors, s.set)
	if err != nil {
		return err
	}
	return s.writeTable(ctx, r, s.keys.AverageStats, info)
}

func (s *Service) runRecommendIfAsked(ctx context.Context, r *run, ids []string) error {
	if len(ids) == 0 {
		r.log.Info(ctx, "no contract ids given, skipping recommend")
		return nil
	}
	return s.runRecommend(ctx, r, ids)
}

func (s *Service) runRecommend(ctx context.Context, r *run, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return model.Errorf(model.KindInvalidInput, "service.recommend", "", "%w", ErrNoContracts)
	}
	r.sum.ContractIDs = ids

	avg, err := s.readTable(ctx, r, s.keys.AverageStats)
	if err != nil {
		return err
	}
	vectors, err := features.VectorsFromTable(avg, s.set)
	if err != nil {
		return err
	}

	start := time.Now()
	ix, err := similarity.Build(vectors, s.set, similarity.WithK(s.k))
	if err != nil {
		return err
	}
	metrics.RecordIndexBuild(ix.Len(), time.Since(start))

	contracts, err := s.contracts(ctx, r)
	if err != nil {
		return err
	}
	rows, err := model.ContractRowsFromTable(contracts)
	if err != nil {
		return err
	}
	resolver := succession.NewResolver(rows)
	r.log.Info(ctx, "index ready",
		logger.String("features", ix.Features().Name),
		logger.Int("k", ix.K()),
		logger.Int("contracts_indexed", ix.Len()),
		logger.Int("contracts_known", resolver.Len()),
	)

	answers, err := s.query(ctx, r, ix, resolver, ids)
	if err != nil {
		return err
	}
	var entries []summary.Entry
	for _, a := range answers {
		r.fail(a.failures...)
		entries = append(entries, a.entries...)
	}

	out := summary.Summarize(entries)
	body, err := s.encoder.Encode(out)
	if err != nil {
		return err
	}
	key := path.Join(s.keys.Reports, r.sum.RunID+s.encoder.Ext())
	if err := s.put(ctx, r, key, body); err != nil {
		return err
	}
	metrics.RecordRowsWritten("report", len(out))
	r.sum.RowsWritten += len(out)
	return nil
}

// answer is the outcome of one queried contract.
type answer struct {
	entries  []summary.Entry
	failures []model.ContractError
}

// query fans the contract ids out over the worker pool. Answers come back
// in request order.
func (s *Service) query(ctx context.Context, r *run, ix *similarity.Index, resolver *succession.Resolver, ids []string) ([]answer, error) {
	q := queue.NewInMemoryQueue(queue.WithCapacity(len(ids)))
	for i, id := range ids {
		if !q.Enqueue(ctx, queue.Task{Seq: i, ContractID: id}) {
			return nil, fmt.Errorf("enqueue %s: %w", id, ctx.Err())
		}
	}
	_ = q.Close()

	answers := make([]answer, len(ids))
	handler := worker.HandlerFunc(func(ctx context.Context, task worker.Task) error {
		a, err := s.lookup(ctx, r.log, ix, resolver, task.ContractID)
		answers[task.Seq] = a
		return err
	})
	workers := min(s.workers, len(ids))
	stats := worker.NewPool(workers, q, handler, worker.WithLogger(r.log)).Run(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.log.Info(ctx, "neighbour queries done",
		logger.Int("workers", workers),
		logger.Int("handled", stats.Handled),
		logger.Int("failed", stats.Failed),
	)
	return answers, nil
}

// lookup finds the neighbours of id and resolves each to the contract that
// followed it. The query contract itself is not reported. A neighbour
// that cannot be resolved is recorded and skipped.
func (s *Service) lookup(ctx context.Context, log logger.Logger, ix *similarity.Index, resolver *succession.Resolver, id string) (answer, error) {
	start := time.Now()
	res, err := ix.Neighbors(id, s.k)
	metrics.RecordNeighborLatency(time.Since(start))
	if err != nil {
		return answer{failures: []model.ContractError{model.NewContractError(id, err)}}, err
	}
	log.Debug(ctx, "neighbours found", logger.String("contract_id", id), logger.Any("neighbors", res.IDs()))

	var a answer
	for _, n := range res.Others() {
		resolution, err := resolver.Resolve(n.ContractID)
		if err != nil {
			a.failures = append(a.failures, model.NewContractError(n.ContractID, err))
			continue
		}
		metrics.RecordSuccessionOutcome(resolution.Outcome.String())
		a.entries = append(a.entries, summary.Entry{Query: id, Neighbor: n, Resolution: resolution})
	}
	return a, nil
}

// contracts reads and combines the current and historical contract tables.
func (s *Service) contracts(ctx context.Context, r *run) (*table.Table, error) {
	current, err := s.readTable(ctx, r, s.keys.CurrentContracts)
	if err != nil {
		return nil, err
	}
	historical, err := s.readTable(ctx, r, s.keys.HistoricalContracts)
	if err != nil {
		return nil, err
	}
	return merge.Contracts(current, historical)
}

func (s *Service) readTable(ctx context.Context, r *run, key string) (*table.Table, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	t, err := table.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	metrics.RecordRowsRead(tableName(key), t.Len())
	r.sum.RowsRead += t.Len()
	r.log.Debug(ctx, "read table", logger.String("key", key), logger.Int("rows", t.Len()))
	return t, nil
}

func (s *Service) writeTable(ctx context.Context, r *run, key string, t *table.Table) error {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.put(ctx, r, key, buf.Bytes()); err != nil {
		return err
	}
	metrics.RecordRowsWritten(tableName(key), t.Len())
	r.sum.RowsWritten += t.Len()
	return nil
}

func (s *Service) put(ctx context.Context, r *run, key string, body []byte) error {
	if err := s.store.Put(ctx, key, body, storage.ContentType(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	r.sum.Outputs = append(r.sum.Outputs, key)
	r.log.Debug(ctx, "wrote object", logger.String("key", key), logger.Int("bytes", len(body)))
	return nil
}

// tableName is the metric label of a table key: its base name without
// extension.
func tableName(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

// uniqueIDs normalizes ids and drops blanks and repeats, keeping order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := model.NormalizeID(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
