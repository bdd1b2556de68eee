package report

import "net/url"

// Node is one element of a report tree. The set of implementations is
// closed: *Line, *Multiline, *Branch, *Table, *Plot and *Graph.
type Node interface {
	reportNode()
}

func (*Line) reportNode()      {}
func (*Multiline) reportNode() {}
func (*Branch) reportNode()    {}
func (*Table) reportNode()     {}
func (*Plot) reportNode()      {}
func (*Graph) reportNode()     {}

// Line is a single value with an optional link and bookmark.
type Line struct {
	Value      Value
	URL        *url.URL
	Bookmark   *Value
	Colour     Colour // default Black
	Background Colour // default White
}

// NewLine returns a black-on-white line.
func NewLine(v Value) *Line {
	return &Line{Value: v, Colour: Black, Background: White}
}

// WithURL sets the link target and returns l.
func (l *Line) WithURL(u *url.URL) *Line {
	l.URL = u
	return l
}

// WithBookmark sets the in-page anchor id and returns l.
func (l *Line) WithBookmark(b Value) *Line {
	l.Bookmark = &b
	return l
}

// Multiline is an ordered list of values rendered as one block.
type Multiline struct {
	Values     []Value
	URL        *url.URL
	Bookmark   *Value
	Colour     Colour // default Black
	Background Colour // default White
}

// NewMultiline returns a black-on-white multiline block.
func NewMultiline(vs ...Value) *Multiline {
	return &Multiline{Values: vs, Colour: Black, Background: White}
}

// Branch is a labelled list of child nodes.
type Branch struct {
	Label    []Value
	Children []Node
	Bookmark *Value
}

// NewBranch returns a branch with the given label and children.
func NewBranch(label []Value, children ...Node) *Branch {
	return &Branch{Label: label, Children: children}
}

// Append adds children to the end of b.
func (b *Branch) Append(children ...Node) *Branch {
	b.Children = append(b.Children, children...)
	return b
}

// Table is a grid of child nodes. Empty Headings suppress the heading row.
type Table struct {
	Headings []Value
	Rows     [][]Node
}

// NewTable returns a table with the given headings and no rows.
func NewTable(headings ...Value) *Table {
	return &Table{Headings: headings}
}

// AddRow appends a row of cells.
func (t *Table) AddRow(cells ...Node) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

// Plot is a titled series of points. The first two values of each point
// are the x and y coordinates; any further values are labels.
type Plot struct {
	Heading []Value
	Points  [][]Value
}

// NewPlot returns an empty plot with the given heading.
func NewPlot(heading ...Value) *Plot {
	return &Plot{Heading: heading}
}

// AddPoint appends a point.
func (p *Plot) AddPoint(values ...Value) *Plot {
	p.Points = append(p.Points, values)
	return p
}

// Count returns the number of nodes in the tree rooted at n, n included.
// Graph nodes are not report nodes and are not counted.
func Count(n Node) int {
	switch v := n.(type) {
	case *Branch:
		total := 1
		for _, c := range v.Children {
			total += Count(c)
		}
		return total
	case *Table:
		total := 1
		for _, row := range v.Rows {
			for _, c := range row {
				total += Count(c)
			}
		}
		return total
	case nil:
		return 0
	default:
		return 1
	}
}
