package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/temperature-heatmap-service/internal/scale"
)

const (
	tickSize    = 6
	tickPadding = 3
)

var axisAttrs = []Attr{{Name: "fill", Value: "none"}, {Name: "font-size", Value: "10"}}

// yearAxis draws year ticks along the bottom of the plot.
func yearAxis(x scale.Band, plotHeight, plotWidth float64) Group {
	g := Group{
		Class:     "x-axis",
		Transform: translate(0, plotHeight),
		Attrs:     append([]Attr{{Name: "text-anchor", Value: "middle"}}, axisAttrs...),
		Children: []Node{Path{
			Class:  "domain",
			D:      fmt.Sprintf("M0,%dV0H%sV%d", tickSize, num(plotWidth), tickSize),
			Stroke: "currentColor",
		}},
	}
	for _, year := range x.Domain() {
		c, _ := x.Center(year)
		g.Children = append(g.Children, Group{
			Class:     "tick",
			Transform: translate(c, 0),
			Children: []Node{
				Line{Y2: tickSize, Stroke: "currentColor"},
				Text{Y: tickSize + tickPadding, Dy: "0.71em", Attrs: textFill, Content: strconv.Itoa(year)},
			},
		})
	}
	return g
}

// monthAxis draws month names down the left of the plot.
func monthAxis(y scale.Band, plotHeight float64) Group {
	g := Group{
		Class: "y-axis",
		Attrs: append([]Attr{{Name: "text-anchor", Value: "end"}}, axisAttrs...),
		Children: []Node{Path{
			Class:  "domain",
			D:      fmt.Sprintf("M-%d,0H0V%sH-%d", tickSize, num(plotHeight), tickSize),
			Stroke: "currentColor",
		}},
	}
	for _, idx := range y.Domain() {
		c, _ := y.Center(idx)
		g.Children = append(g.Children, Group{
			Class:     "tick",
			Transform: translate(0, c),
			Children: []Node{
				Line{X2: -tickSize, Stroke: "currentColor"},
				Text{X: -(tickSize + tickPadding), Dy: "0.32em", Attrs: textFill, Content: time.Month(idx + 1).String()},
			},
		})
	}
	return g
}

// axisLabels places the "Year" and "Month" captions and the chart title.
func axisLabels(title string, plotWidth, plotHeight float64) []Node {
	return []Node{
		Text{Class: "x-label", X: plotWidth / 2, Y: plotHeight + 40, Anchor: "middle", Content: "Year"},
		Text{Class: "y-label", X: -plotHeight / 2, Y: -60, Anchor: "middle", Transform: "rotate(-90)", Content: "Month"},
		Text{
			Class:   "chart-title",
			X:       plotWidth / 2,
			Y:       -20,
			Anchor:  "middle",
			Attrs:   []Attr{{Name: "font-size", Value: "18px"}, {Name: "font-weight", Value: "bold"}},
			Content: title,
		},
	}
}

var textFill = []Attr{{Name: "fill", Value: "currentColor"}}

func translate(x, y float64) string {
	return "translate(" + num(x) + "," + num(y) + ")"
}
