package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
)

// aggregateDoc is the exported form of a month. Missing values are null.
type aggregateDoc struct {
	Month          string   `json:"month" yaml:"month"`
	MaxTemperature *float64 `json:"max_temperature" yaml:"max_temperature"`
	MinTemperature *float64 `json:"min_temperature" yaml:"min_temperature"`
	MeanMax        *float64 `json:"mean_max" yaml:"mean_max"`
	MeanMin        *float64 `json:"mean_min" yaml:"mean_min"`
	Count          int      `json:"count" yaml:"count"`
	Days           []dayDoc `json:"days,omitempty" yaml:"days,omitempty"`
}

type dayDoc struct {
	Date           string   `json:"date" yaml:"date"`
	MaxTemperature *float64 `json:"max_temperature" yaml:"max_temperature"`
	MinTemperature *float64 `json:"min_temperature" yaml:"min_temperature"`
}

type aggregatesDoc struct {
	Source     string            `json:"source" yaml:"source"`
	Level      int               `json:"level" yaml:"level"`
	Report     domain.LoadReport `json:"report" yaml:"report"`
	Aggregates []aggregateDoc    `json:"aggregates" yaml:"aggregates"`
}

func newAggregatesCmd(root *rootOptions) *cobra.Command {
	var (
		level  int
		format string
		days   bool
	)
	cmd := &cobra.Command{
		Use:   "aggregates",
		Short: "Print the month aggregates of a level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := parseLevelFlag(level)
			if err != nil {
				return err
			}
			snap, err := root.snapshot(cmd.Context(), root.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			data, err := snap.Level(lvl)
			if err != nil {
				return err
			}

			doc := aggregatesDoc{
				Source:     snap.Source,
				Level:      int(lvl),
				Report:     snap.Report,
				Aggregates: make([]aggregateDoc, 0, len(data.Aggregates)),
			}
			for _, a := range data.Aggregates {
				doc.Aggregates = append(doc.Aggregates, toAggregateDoc(a, days))
			}
			return writeDoc(cmd.OutOrStdout(), format, doc)
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "visualization level (1 or 2)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&days, "days", false, "include daily records (level 2)")
	return cmd
}

func toAggregateDoc(a domain.MonthAggregate, withDays bool) aggregateDoc {
	doc := aggregateDoc{
		Month:          a.Key.String(),
		MaxTemperature: domain.Nullable(a.MaxTemperature),
		MinTemperature: domain.Nullable(a.MinTemperature),
		MeanMax:        domain.Nullable(a.MeanMax),
		MeanMin:        domain.Nullable(a.MeanMin),
		Count:          a.Count,
	}
	if withDays {
		for _, r := range a.Days {
			doc.Days = append(doc.Days, dayDoc{
				Date:           r.Date.Format(time.DateOnly),
				MaxTemperature: domain.Nullable(r.MaxTemperature),
				MinTemperature: domain.Nullable(r.MinTemperature),
			})
		}
	}
	return doc
}

func writeDoc(w io.Writer, format string, doc any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: want json or yaml", format)
	}
}
