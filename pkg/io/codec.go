package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/report"
)

// Document is a decoded document file.
type Document struct {
	Root      report.Node
	Shortcuts []report.Shortcut
}

var rankFromString = map[string]report.RankDirection{
	"LR": report.LeftRight,
	"RL": report.RightLeft,
	"TB": report.TopBottom,
	"BT": report.BottomTop,
}

var styleFromString = map[string]report.EdgeStyle{
	"solid":  report.Solid,
	"dashed": report.Dashed,
	"dotted": report.Dotted,
	"invis":  report.Invisible,
	"bold":   report.Bold,
}

type document struct {
	Shortcuts []shortcut `json:"shortcuts,omitempty"`
	Root      *node      `json:"root"`
}

type shortcut struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type node struct {
	Line      *line      `json:"line,omitempty"`
	Multiline *multiline `json:"multiline,omitempty"`
	Branch    *branch    `json:"branch,omitempty"`
	Table     *table     `json:"table,omitempty"`
	Plot      *plot      `json:"plot,omitempty"`
	Graph     *graph     `json:"graph,omitempty"`
}

type line struct {
	Value      value  `json:"value"`
	URL        string `json:"url,omitempty"`
	Bookmark   *value `json:"bookmark,omitempty"`
	Colour     string `json:"colour,omitempty"`
	Background string `json:"background,omitempty"`
}

type multiline struct {
	Values     []value `json:"values"`
	URL        string  `json:"url,omitempty"`
	Bookmark   *value  `json:"bookmark,omitempty"`
	Colour     string  `json:"colour,omitempty"`
	Background string  `json:"background,omitempty"`
}

type branch struct {
	Label    []value `json:"label"`
	Children []*node `json:"children,omitempty"`
	Bookmark *value  `json:"bookmark,omitempty"`
}

type table struct {
	Headings []value   `json:"headings,omitempty"`
	Rows     [][]*node `json:"rows,omitempty"`
}

type plot struct {
	Heading []value   `json:"heading"`
	Points  [][]value `json:"points"`
}

type graph struct {
	RankDir   string      `json:"rank_dir,omitempty"`
	Nodes     []graphNode `json:"nodes"`
	Edges     []edge      `json:"edges,omitempty"`
	Subgraphs []subgraph  `json:"subgraphs,omitempty"`
}

type graphNode struct {
	Rows        [][]value `json:"rows,omitempty"`
	Colour      string    `json:"colour,omitempty"`
	Background  string    `json:"background,omitempty"`
	BorderWidth int       `json:"border_width,omitempty"`
	URL         string    `json:"url,omitempty"`
	Bookmark    *value    `json:"bookmark,omitempty"`
}

type edge struct {
	From           int     `json:"from"`
	To             int     `json:"to"`
	Colour         string  `json:"colour,omitempty"`
	Style          string  `json:"style,omitempty"`
	IgnoreInLayout bool    `json:"ignore_in_layout,omitempty"`
	LineWidth      int     `json:"line_width,omitempty"`
	Label          []value `json:"label,omitempty"`
}

type subgraph struct {
	Rows     [][]value `json:"rows,omitempty"`
	Colour   string    `json:"colour,omitempty"`
	URL      string    `json:"url,omitempty"`
	Bookmark *value    `json:"bookmark,omitempty"`
	Nodes    []int     `json:"nodes"`
}

// value carries a report.Value as a JSON string or number.
type value struct {
	report.Value
}

func (v value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case report.KindInt:
		return []byte(v.String()), nil
	case report.KindFloat:
		if f, _ := v.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("value %s has no JSON representation", v)
		}
		return []byte(v.String()), nil
	default:
		return json.Marshal(v.String())
	}
}

func (v *value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v.Value = report.Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("value must be a string or number, got %s", b)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		v.Value = report.Int(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("value %s: %w", n, err)
	}
	v.Value = report.Float(f)
	return nil
}

// decoding

func (d *document) toReport() (*Document, error) {
	if d.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "document has no root node")
	}
	root, err := d.Root.toReport("root")
	if err != nil {
		return nil, err
	}

	out := &Document{Root: root}
	for i, s := range d.Shortcuts {
		r, size := utf8.DecodeRuneInString(s.Key)
		if s.Key == "" || size != len(s.Key) || r == utf8.RuneError {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "shortcut %d (%s): key must be a single character, got %q", i, s.Name, s.Key)
		}
		out.Shortcuts = append(out.Shortcuts, report.Shortcut{Name: s.Name, Key: r})
	}
	return out, nil
}

func (n *node) toReport(path string) (report.Node, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: null node", path)
	}

	set := 0
	for _, ok := range []bool{n.Line != nil, n.Multiline != nil, n.Branch != nil, n.Table != nil, n.Plot != nil, n.Graph != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"%s: node must have exactly one of line, multiline, branch, table, plot, graph (found %d)", path, set)
	}

	switch {
	case n.Line != nil:
		l := n.Line
		u, err := parseURL(path, l.URL)
		if err != nil {
			return nil, err
		}
		return &report.Line{
			Value:      l.Value.Value,
			URL:        u,
			Bookmark:   bookmark(l.Bookmark),
			Colour:     report.Colour(l.Colour),
			Background: report.Colour(l.Background),
		}, nil

	case n.Multiline != nil:
		m := n.Multiline
		u, err := parseURL(path, m.URL)
		if err != nil {
			return nil, err
		}
		return &report.Multiline{
			Values:     values(m.Values),
			URL:        u,
			Bookmark:   bookmark(m.Bookmark),
			Colour:     report.Colour(m.Colour),
			Background: report.Colour(m.Background),
		}, nil

	case n.Branch != nil:
		b := &report.Branch{Label: values(n.Branch.Label), Bookmark: bookmark(n.Branch.Bookmark)}
		for i, c := range n.Branch.Children {
			child, err := c.toReport(fmt.Sprintf("%s/children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			b.Children = append(b.Children, child)
		}
		return b, nil

	case n.Table != nil:
		t := &report.Table{Headings: values(n.Table.Headings)}
		for i, row := range n.Table.Rows {
			cells := make([]report.Node, len(row))
			for j, c := range row {
				cell, err := c.toReport(fmt.Sprintf("%s/rows[%d][%d]", path, i, j))
				if err != nil {
					return nil, err
				}
				cells[j] = cell
			}
			t.Rows = append(t.Rows, cells)
		}
		return t, nil

	case n.Plot != nil:
		p := &report.Plot{Heading: values(n.Plot.Heading)}
		for _, pt := range n.Plot.Points {
			p.Points = append(p.Points, values(pt))
		}
		return p, nil

	default:
		return n.Graph.toReport(path)
	}
}

func (g *graph) toReport(path string) (*report.Graph, error) {
	out := &report.Graph{}
	if g.RankDir != "" {
		d, ok := rankFromString[g.RankDir]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown rank_dir %q", path, g.RankDir)
		}
		out.RankDir = d
	}

	for i, n := range g.Nodes {
		u, err := parseURL(fmt.Sprintf("%s/nodes[%d]", path, i), n.URL)
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, report.GraphNode{
			Rows:        rows(n.Rows),
			Colour:      report.Colour(n.Colour),
			Background:  report.Colour(n.Background),
			BorderWidth: n.BorderWidth,
			URL:         u,
			Bookmark:    bookmark(n.Bookmark),
		})
	}

	for i, e := range g.Edges {
		style := report.Solid
		if e.Style != "" {
			s, ok := styleFromString[e.Style]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "%s/edges[%d]: unknown style %q", path, i, e.Style)
			}
			style = s
		}
		out.Edges = append(out.Edges, report.Edge{
			From:           report.NodeID(e.From),
			To:             report.NodeID(e.To),
			Colour:         report.Colour(e.Colour),
			Style:          style,
			IgnoreInLayout: e.IgnoreInLayout,
			LineWidth:      e.LineWidth,
			Label:          values(e.Label),
		})
	}

	for i, s := range g.Subgraphs {
		u, err := parseURL(fmt.Sprintf("%s/subgraphs[%d]", path, i), s.URL)
		if err != nil {
			return nil, err
		}
		members := make([]report.NodeID, len(s.Nodes))
		for j, id := range s.Nodes {
			members[j] = report.NodeID(id)
		}
		out.Subgraphs = append(out.Subgraphs, report.Subgraph{
			Rows:     rows(s.Rows),
			Colour:   report.Colour(s.Colour),
			URL:      u,
			Bookmark: bookmark(s.Bookmark),
			Nodes:    members,
		})
	}
	return out, nil
}

func parseURL(path, raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: url", path)
	}
	return u, nil
}

func values(vs []value) []report.Value {
	if vs == nil {
		return nil
	}
	out := make([]report.Value, len(vs))
	for i, v := range vs {
		out[i] = v.Value
	}
	return out
}

func rows(rs [][]value) [][]report.Value {
	if rs == nil {
		return nil
	}
	out := make([][]report.Value, len(rs))
	for i, r := range rs {
		out[i] = values(r)
	}
	return out
}

func bookmark(v *value) *report.Value {
	if v == nil {
		return nil
	}
	return v.Value.Ptr()
}

// encoding

func fromReport(doc *Document) (*document, error) {
	root, err := nodeFromReport(doc.Root, "root")
	if err != nil {
		return nil, err
	}
	out := &document{Root: root}
	for _, s := range doc.Shortcuts {
		out.Shortcuts = append(out.Shortcuts, shortcut{Name: s.Name, Key: string(s.Key)})
	}
	return out, nil
}

func nodeFromReport(n report.Node, path string) (*node, error) {
	if n == nil || reflect.ValueOf(n).IsNil() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: nil node", path)
	}

	switch v := n.(type) {
	case *report.Line:
		return &node{Line: &line{
			Value:      value{v.Value},
			URL:        urlString(v.URL),
			Bookmark:   toValuePtr(v.Bookmark),
			Colour:     string(v.Colour),
			Background: string(v.Background),
		}}, nil

	case *report.Multiline:
		return &node{Multiline: &multiline{
			Values:     toValues(v.Values),
			URL:        urlString(v.URL),
			Bookmark:   toValuePtr(v.Bookmark),
			Colour:     string(v.Colour),
			Background: string(v.Background),
		}}, nil

	case *report.Branch:
		b := &branch{Label: toValues(v.Label), Bookmark: toValuePtr(v.Bookmark)}
		for i, c := range v.Children {
			child, err := nodeFromReport(c, fmt.Sprintf("%s/children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			b.Children = append(b.Children, child)
		}
		return &node{Branch: b}, nil

	case *report.Table:
		t := &table{Headings: toValues(v.Headings)}
		for i, row := range v.Rows {
			cells := make([]*node, len(row))
			for j, c := range row {
				cell, err := nodeFromReport(c, fmt.Sprintf("%s/rows[%d][%d]", path, i, j))
				if err != nil {
					return nil, err
				}
				cells[j] = cell
			}
			t.Rows = append(t.Rows, cells)
		}
		return &node{Table: t}, nil

	case *report.Plot:
		p := &plot{Heading: toValues(v.Heading), Points: make([][]value, len(v.Points))}
		for i, pt := range v.Points {
			p.Points[i] = toValues(pt)
		}
		return &node{Plot: p}, nil

	case *report.Graph:
		return &node{Graph: graphFromReport(v)}, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: cannot encode node of type %T", path, n)
	}
}

func graphFromReport(g *report.Graph) *graph {
	out := &graph{RankDir: g.RankDir.String(), Nodes: make([]graphNode, len(g.Nodes))}
	for i, n := range g.Nodes {
		out.Nodes[i] = graphNode{
			Rows:        toRows(n.Rows),
			Colour:      string(n.Colour),
			Background:  string(n.Background),
			BorderWidth: n.BorderWidth,
			URL:         urlString(n.URL),
			Bookmark:    toValuePtr(n.Bookmark),
		}
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, edge{
			From:           int(e.From),
			To:             int(e.To),
			Colour:         string(e.Colour),
			Style:          e.Style.String(),
			IgnoreInLayout: e.IgnoreInLayout,
			LineWidth:      e.LineWidth,
			Label:          toValues(e.Label),
		})
	}
	for _, s := range g.Subgraphs {
		members := make([]int, len(s.Nodes))
		for j, id := range s.Nodes {
			members[j] = int(id)
		}
		out.Subgraphs = append(out.Subgraphs, subgraph{
			Rows:     toRows(s.Rows),
			Colour:   string(s.Colour),
			URL:      urlString(s.URL),
			Bookmark: toValuePtr(s.Bookmark),
			Nodes:    members,
		})
	}
	return out
}

func toValues(vs []report.Value) []value {
	if vs == nil {
		return nil
	}
	out := make([]value, len(vs))
	for i, v := range vs {
		out[i] = value{v}
	}
	return out
}

func toRows(rs [][]report.Value) [][]value {
	if rs == nil {
		return nil
	}
	out := make([][]value, len(rs))
	for i, r := range rs {
		out[i] = toValues(r)
	}
	return out
}

func toValuePtr(v *report.Value) *value {
	if v == nil {
		return nil
	}
	return &value{*v}
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
