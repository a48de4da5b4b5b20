package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Layout controls heatmap geometry and theme. Fields omitted from a layout
// file keep their defaults.
type Layout struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin Margin  `yaml:"margin"`

	BandPadding float64 `yaml:"band_padding"`
	CellPadding float64 `yaml:"cell_padding"`

	LegendOffset float64 `yaml:"legend_offset"`
	LegendWidth  float64 `yaml:"legend_width"`
	LegendHeight float64 `yaml:"legend_height"`
	LegendSteps  int     `yaml:"legend_steps"`
	LegendTicks  int     `yaml:"legend_ticks"`

	NoDataColor  string `yaml:"no_data_color"`
	MaxLineColor string `yaml:"max_line_color"`
	MinLineColor string `yaml:"min_line_color"`
	FontFamily   string `yaml:"font_family"`

	DetailWidth  int `yaml:"detail_width"`
	DetailHeight int `yaml:"detail_height"`
}

// DefaultLayout is a 1100x600 canvas with room for the legend on the right.
func DefaultLayout() Layout {
	return Layout{
		Width:        1100,
		Height:       600,
		Margin:       Margin{Top: 50, Right: 100, Bottom: 50, Left: 80},
		BandPadding:  0.05,
		CellPadding:  2,
		LegendOffset: 40,
		LegendWidth:  20,
		LegendHeight: 300,
		LegendSteps:  50,
		LegendTicks:  5,
		NoDataColor:  "#ccc",
		MaxLineColor: "#d62728",
		MinLineColor: "#1f77b4",
		FontFamily:   "sans-serif",
		DetailWidth:  800,
		DetailHeight: 400,
	}
}

// PlotWidth is the canvas width less the horizontal margins.
func (l Layout) PlotWidth() float64 { return l.Width - l.Margin.Left - l.Margin.Right }

// PlotHeight is the canvas height less the vertical margins.
func (l Layout) PlotHeight() float64 { return l.Height - l.Margin.Top - l.Margin.Bottom }

// Validate rejects layouts that leave no room to draw.
func (l Layout) Validate() error {
	switch {
	case l.PlotWidth() <= 0 || l.PlotHeight() <= 0:
		return errors.New("layout: margins leave no plot area")
	case l.BandPadding < 0 || l.BandPadding >= 1:
		return fmt.Errorf("layout: band_padding %v outside [0, 1)", l.BandPadding)
	case l.LegendSteps <= 0 || l.LegendHeight <= 0:
		return errors.New("layout: legend needs positive steps and height")
	}
	return nil
}

// LoadLayout reads a YAML layout file over DefaultLayout. An empty path
// returns the defaults.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes YAML over DefaultLayout and validates the result.
func ParseLayout(data []byte) (Layout, error) {
	l := DefaultLayout()
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
