package report

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
	summary "github.com/rinklabs/contractcomps/internal/domain/report"
)

// parquetRow is the column layout of a parquet summary.
type parquetRow struct {
	Query         string  `parquet:"query_contract_id"`
	ContractID    string  `parquet:"contract_id"`
	PlayerID      string  `parquet:"playerId"`
	LastName      string  `parquet:"lastName"`
	Value         float64 `parquet:"value"`
	Length        float64 `parquet:"length"`
	CapHit        float64 `parquet:"cap_hit"`
	AAV           float64 `parquet:"aav"`
	AvgPercentCap float64 `parquet:"average_percentage_of_season_salary_cap"`
	SeasonSpan    string  `parquet:"season_span"`
	Neighbor      string  `parquet:"neighbor_contract_id"`
	Distance      float64 `parquet:"distance"`
	Outcome       string  `parquet:"outcome,dict"`
}

func toParquet(r summary.Row) parquetRow {
	return parquetRow{
		Query:         r.Query,
		ContractID:    r.ContractID,
		PlayerID:      r.PlayerID,
		LastName:      r.LastName,
		Value:         r.Value,
		Length:        r.Length,
		CapHit:        r.CapHit,
		AAV:           r.AAV,
		AvgPercentCap: r.AvgPercentCap,
		SeasonSpan:    r.SeasonSpan,
		Neighbor:      r.Neighbor,
		Distance:      r.Distance,
		Outcome:       r.Outcome,
	}
}

// Parquet writes a Snappy-compressed parquet file.
type Parquet struct{}

// Encode implements Encoder.
func (Parquet) Encode(rows []summary.Row) ([]byte, error) {
	out := make([]parquetRow, len(rows))
	for i, r := range rows {
		out[i] = toParquet(r)
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[parquetRow](&buf, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(out); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("report: write parquet: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("report: close parquet: %w", err)
	}
	return buf.Bytes(), nil
}

// Ext implements Encoder.
func (Parquet) Ext() string { return ".parquet" }
