package render

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// Encode writes the scene as a standalone SVG document.
func Encode(s Scene) []byte {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	writeNum(&b, "width", s.Width)
	writeNum(&b, "height", s.Height)
	b.WriteString(` viewBox="0 0 `)
	b.WriteString(num(s.Width))
	b.WriteByte(' ')
	b.WriteString(num(s.Height))
	b.WriteByte('"')
	if s.Label != "" {
		writeAttr(&b, "aria-label", s.Label)
		writeAttr(&b, "role", "img")
	}
	b.WriteString(">\n")
	if s.Style != "" {
		b.WriteString("<style>")
		escape(&b, s.Style)
		b.WriteString("</style>\n")
	}
	for _, n := range s.Children {
		encodeNode(&b, n, 0)
	}
	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func encodeNode(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	switch n := n.(type) {
	case Group:
		b.WriteString("<g")
		writeAttr(b, "class", n.Class)
		writeAttr(b, "transform", n.Transform)
		writeAttrs(b, n.Attrs)
		if len(n.Children) == 0 {
			b.WriteString("/>\n")
			return
		}
		b.WriteString(">\n")
		for _, c := range n.Children {
			encodeNode(b, c, depth+1)
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("</g>\n")
	case Rect:
		b.WriteString("<rect")
		writeAttr(b, "class", n.Class)
		writeNum(b, "x", n.X)
		writeNum(b, "y", n.Y)
		writeNum(b, "width", n.Width)
		writeNum(b, "height", n.Height)
		writeAttr(b, "fill", n.Fill)
		writeAttr(b, "stroke", n.Stroke)
		if n.StrokeWidth > 0 {
			writeNum(b, "stroke-width", n.StrokeWidth)
		}
		writeAttrs(b, n.Attrs)
		if n.Title == "" {
			b.WriteString("/>\n")
			return
		}
		b.WriteString("><title>")
		escape(b, n.Title)
		b.WriteString("</title></rect>\n")
	case Path:
		b.WriteString("<path")
		writeAttr(b, "class", n.Class)
		writeAttr(b, "d", n.D)
		writeAttr(b, "stroke", n.Stroke)
		writeAttr(b, "fill", n.Fill)
		writeAttrs(b, n.Attrs)
		b.WriteString("/>\n")
	case Line:
		b.WriteString("<line")
		writeAttr(b, "class", n.Class)
		writeNum(b, "x1", n.X1)
		writeNum(b, "y1", n.Y1)
		writeNum(b, "x2", n.X2)
		writeNum(b, "y2", n.Y2)
		writeAttr(b, "stroke", n.Stroke)
		writeAttrs(b, n.Attrs)
		b.WriteString("/>\n")
	case Text:
		b.WriteString("<text")
		writeAttr(b, "class", n.Class)
		writeNum(b, "x", n.X)
		writeNum(b, "y", n.Y)
		writeAttr(b, "dy", n.Dy)
		writeAttr(b, "text-anchor", n.Anchor)
		writeAttr(b, "transform", n.Transform)
		writeAttrs(b, n.Attrs)
		b.WriteByte('>')
		escape(b, n.Content)
		b.WriteString("</text>\n")
	}
}

func writeAttrs(b *strings.Builder, attrs []Attr) {
	for _, a := range attrs {
		writeAttr(b, a.Name, a.Value)
	}
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	escape(b, value)
	b.WriteByte('"')
}

func writeNum(b *strings.Builder, name string, v float64) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(num(v))
	b.WriteByte('"')
}

func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}

// num formats a coordinate with at most three decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
