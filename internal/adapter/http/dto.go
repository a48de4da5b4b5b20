package http

import (
	"time"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

// aggregateDTO is the JSON shape of a MonthAggregate. Missing values are null.
type aggregateDTO struct {
	Key            string   `json:"key"`
	Label          string   `json:"label"`
	Year           int      `json:"year"`
	Month          int      `json:"month"`
	MaxTemperature *float64 `json:"max_temperature"`
	MinTemperature *float64 `json:"min_temperature"`
	MeanMax        *float64 `json:"mean_max"`
	MeanMin        *float64 `json:"mean_min"`
	Count          int      `json:"count"`
	MissingMax     int      `json:"missing_max,omitempty"`
	MissingMin     int      `json:"missing_min,omitempty"`
	Days           []dayDTO `json:"days,omitempty"`
}

type dayDTO struct {
	Date           string   `json:"date"`
	Day            int      `json:"day"`
	MaxTemperature *float64 `json:"max_temperature"`
	MinTemperature *float64 `json:"min_temperature"`
}

type levelDTO struct {
	Level      int            `json:"level"`
	SnapshotID string         `json:"snapshot_id"`
	Aggregates []aggregateDTO `json:"aggregates"`
}

type snapshotDTO struct {
	ID           string              `json:"id"`
	LoadedAt     time.Time           `json:"loaded_at"`
	Source       string              `json:"source"`
	Digest       string              `json:"digest"`
	Rows         int                 `json:"rows"`
	Records      int                 `json:"records"`
	DroppedRows  []domain.FieldIssue `json:"dropped_rows"`
	Malformed    []domain.FieldIssue `json:"malformed"`
	Level1Months int                 `json:"level1_months"`
	Level2Months int                 `json:"level2_months"`
}

func toAggregateDTO(a domain.MonthAggregate) aggregateDTO {
	dto := aggregateDTO{
		Key:            a.Key.String(),
		Label:          a.Key.Label(),
		Year:           a.Key.Year,
		Month:          int(a.Key.Month),
		MaxTemperature: domain.Nullable(a.MaxTemperature),
		MinTemperature: domain.Nullable(a.MinTemperature),
		MeanMax:        domain.Nullable(a.MeanMax),
		MeanMin:        domain.Nullable(a.MeanMin),
		Count:          a.Count,
		MissingMax:     a.MissingMax,
		MissingMin:     a.MissingMin,
	}
	for _, r := range a.Days {
		dto.Days = append(dto.Days, dayDTO{
			Date:           r.Date.Format(time.DateOnly),
			Day:            r.Day(),
			MaxTemperature: domain.Nullable(r.MaxTemperature),
			MinTemperature: domain.Nullable(r.MinTemperature),
		})
	}
	return dto
}

func toLevelDTO(snap *pipeline.Snapshot, data *pipeline.LevelData) levelDTO {
	out := levelDTO{
		Level:      int(data.Level),
		SnapshotID: snap.ID.String(),
		Aggregates: make([]aggregateDTO, 0, len(data.Aggregates)),
	}
	for _, a := range data.Aggregates {
		out.Aggregates = append(out.Aggregates, toAggregateDTO(a))
	}
	return out
}

func toSnapshotDTO(snap *pipeline.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		ID:          snap.ID.String(),
		LoadedAt:    snap.LoadedAt,
		Source:      snap.Source,
		Digest:      snap.Digest,
		Rows:        snap.Report.Rows,
		Records:     snap.Report.Records,
		DroppedRows: snap.Report.DroppedRows,
		Malformed:   snap.Report.Malformed,
	}
	if snap.Level1 != nil {
		dto.Level1Months = len(snap.Level1.Aggregates)
	}
	if snap.Level2 != nil {
		dto.Level2Months = len(snap.Level2.Aggregates)
	}
	return dto
}
