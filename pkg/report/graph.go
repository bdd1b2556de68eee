package report

import "net/url"

// NodeID identifies a graph node by its index in [Graph.Nodes].
type NodeID int

// RankDirection is the Graphviz layout orientation.
type RankDirection uint8

const (
	LeftRight RankDirection = iota
	RightLeft
	TopBottom
	BottomTop
)

// String returns the Graphviz rankdir keyword.
func (d RankDirection) String() string {
	switch d {
	case RightLeft:
		return "RL"
	case TopBottom:
		return "TB"
	case BottomTop:
		return "BT"
	default:
		return "LR"
	}
}

// EdgeStyle is the Graphviz edge style.
type EdgeStyle uint8

const (
	Solid EdgeStyle = iota
	Dashed
	Dotted
	Invisible
	Bold
)

// String returns the Graphviz style keyword.
func (s EdgeStyle) String() string {
	switch s {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	case Invisible:
		return "invis"
	case Bold:
		return "bold"
	default:
		return "solid"
	}
}

// GraphNode is a box in a [Graph]. Each row is rendered as a table row
// inside the box, one cell per value.
type GraphNode struct {
	Rows        [][]Value
	Colour      Colour // border, default Blue
	URL         *url.URL
	Bookmark    *Value
	Background  Colour // default LightBlue
	BorderWidth int    // default 1
}

// NewGraphNode returns a node with the default colours and border.
func NewGraphNode(rows ...[]Value) GraphNode {
	return GraphNode{Rows: rows, Colour: Blue, Background: LightBlue, BorderWidth: 1}
}

// Edge connects two graph nodes.
type Edge struct {
	From, To       NodeID
	Colour         Colour // default Black
	Style          EdgeStyle
	IgnoreInLayout bool // edge is drawn but does not constrain ranking
	LineWidth      int  // default 1
	Label          []Value
}

// NewEdge returns a solid black edge.
func NewEdge(from, to NodeID) Edge {
	return Edge{From: from, To: to, Colour: Black, Style: Solid, LineWidth: 1}
}

// Subgraph draws a labelled cluster around a set of graph nodes.
type Subgraph struct {
	Rows     [][]Value
	Colour   Colour // label background, default LightBlue
	URL      *url.URL
	Bookmark *Value
	Nodes    []NodeID
}

// NewSubgraph returns a cluster around the given nodes.
func NewSubgraph(nodes ...NodeID) Subgraph {
	return Subgraph{Colour: LightBlue, Nodes: nodes}
}

// Graph is a node/edge diagram laid out by Graphviz.
type Graph struct {
	Nodes     []GraphNode
	Edges     []Edge
	Subgraphs []Subgraph
	RankDir   RankDirection
}

// NewGraph returns an empty graph with the given orientation.
func NewGraph(dir RankDirection) *Graph {
	return &Graph{RankDir: dir}
}

// AddNode appends n and returns its id.
func (g *Graph) AddNode(n GraphNode) NodeID {
	g.Nodes = append(g.Nodes, n)
	return NodeID(len(g.Nodes) - 1)
}

// AddEdge appends e. The endpoints are not checked here.
func (g *Graph) AddEdge(e Edge) *Graph {
	g.Edges = append(g.Edges, e)
	return g
}

// AddSubgraph appends s. Member ids are not checked here.
func (g *Graph) AddSubgraph(s Subgraph) *Graph {
	g.Subgraphs = append(g.Subgraphs, s)
	return g
}

// Contains reports whether id refers to a node of g.
func (g *Graph) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.Nodes)
}
