package render

// Attr is an extra SVG attribute written after a node's standard ones.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a Scene.
type Node interface {
	isNode()
}

// Scene is the complete, ordered shape list for one chart. Encoding the
// same Scene always yields the same bytes.
type Scene struct {
	Width    float64
	Height   float64
	Label    string
	Style    string
	Children []Node
}

// Group nests nodes under an optional transform.
type Group struct {
	Class     string
	Transform string
	Attrs     []Attr
	Children  []Node
}

// Rect is a rectangle. Title becomes a <title> child, which browsers show
// as a native tooltip.
type Rect struct {
	Class       string
	X, Y        float64
	Width       float64
	Height      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Attrs       []Attr
	Title       string
}

// Path is an SVG path.
type Path struct {
	Class  string
	D      string
	Stroke string
	Fill   string
	Attrs  []Attr
}

// Line is a straight segment.
type Line struct {
	Class          string
	X1, Y1, X2, Y2 float64
	Stroke         string
	Attrs          []Attr
}

// Text is a text label.
type Text struct {
	Class     string
	X, Y      float64
	Dy        string
	Anchor    string
	Transform string
	Attrs     []Attr
	Content   string
}

func (Group) isNode() {}
func (Rect) isNode()  {}
func (Path) isNode()  {}
func (Line) isNode()  {}
func (Text) isNode()  {}

// Walk calls fn for every node in depth-first document order.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		if g, ok := n.(Group); ok {
			Walk(g.Children, fn)
		}
	}
}

// Rects returns every Rect with the given class, in document order.
func (s Scene) Rects(class string) []Rect {
	var out []Rect
	Walk(s.Children, func(n Node) {
		if r, ok := n.(Rect); ok && r.Class == class {
			out = append(out, r)
		}
	})
	return out
}

// Groups returns every Group with the given class, in document order.
func (s Scene) Groups(class string) []Group {
	var out []Group
	Walk(s.Children, func(n Node) {
		if g, ok := n.(Group); ok && g.Class == class {
			out = append(out, g)
		}
	})
	return out
}

// Paths returns every Path with the given class, in document order.
func (s Scene) Paths(class string) []Path {
	var out []Path
	Walk(s.Children, func(n Node) {
		if p, ok := n.(Path); ok && p.Class == class {
			out = append(out, p)
		}
	})
	return out
}

// Texts returns the content of every Text with the given class.
func (s Scene) Texts(class string) []string {
	var out []string
	Walk(s.Children, func(n Node) {
		if t, ok := n.(Text); ok && t.Class == class {
			out = append(out, t.Content)
		}
	})
	return out
}

// AttrValue returns the named extra attribute.
func AttrValue(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
