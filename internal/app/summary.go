package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/rinklabs/contractcomps/internal/domain/model"
)

// Summary describes one run. It is written as JSON next to the reports
// and returned to callers.
type Summary struct {
	RunID       string                `json:"run_id"`
	Job         string                `json:"job"`
	Status      string                `json:"status"`
	Error       string                `json:"error,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
	DurationMS  int64                 `json:"duration_ms"`
	FeatureSet  string                `json:"feature_set"`
	Neighbors   int                   `json:"neighbors"`
	ContractIDs []string              `json:"contract_ids,omitempty"`
	RowsRead    int                   `json:"rows_read"`
	RowsWritten int                   `json:"rows_written"`
	Outputs     []string              `json:"outputs"`
	Failures    []model.ContractError `json:"failures"`
}

// SummaryKey is the object key of a run's summary.
func SummaryKey(reports, runID string) string {
	return path.Join(reports, runID+".json")
}

func (s *Service) writeSummary(ctx context.Context, r *run) error {
	key := SummaryKey(s.keys.Reports, r.sum.RunID)
	r.sum.Outputs = append(r.sum.Outputs, key)

	body, err := json.MarshalIndent(r.sum, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
