package html

import (
	"fmt"
	"net/url"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/render/templates"
	"github.com/matzehuels/stackreport/pkg/report"
)

// CSS classes referenced by the report shell.
const (
	multilineStyle = "multiline_default"
	branchStyle    = "branch_default"
)

type record = templates.Record

func lineRecord(l *report.Line) record {
	return textRecord([]report.Value{l.Value}, l.URL, l.Bookmark, l.Colour, l.Background)
}

func multilineRecord(m *report.Multiline) record {
	return textRecord(m.Values, m.URL, m.Bookmark, m.Colour, m.Background)
}

func textRecord(vs []report.Value, u *url.URL, bookmark *report.Value, fg, bg report.Colour) record {
	rec := record{
		"style":             multilineStyle,
		"colour":            fg.Or(report.Black).String(),
		"background_colour": bg.Or(report.White).String(),
		"elements":          report.Strings(vs),
	}
	setBookmark(rec, bookmark)
	rec["has_link"], rec["link"] = urlFields(u)
	return rec
}

func branchRecord(b *report.Branch, elems []string) record {
	rec := record{
		"style":    branchStyle,
		"label":    report.Strings(b.Label),
		"elements": elems,
	}
	setBookmark(rec, b.Bookmark)
	return rec
}

func tableRecord(t *report.Table, cells [][]string) record {
	rows := make([]record, len(cells))
	for i, c := range cells {
		rows[i] = record{"values": c}
	}
	return record{
		"headings": report.Strings(t.Headings),
		"rows":     rows,
	}
}

func plotRecord(p *report.Plot) record {
	return record{
		"headings": report.Strings(p.Heading),
		"points":   valueRows(p.Points),
	}
}

func nodeName(id report.NodeID) string { return fmt.Sprintf("node%d", id) }

func subgraphName(i int) string { return fmt.Sprintf("cluster_%d", i) }

// graphRecord builds the graph template record. Edge endpoints and
// subgraph members are checked against the node list first, so a bad
// reference never reaches the layout tool.
func graphRecord(g *report.Graph) (record, error) {
	if err := validateGraph(g); err != nil {
		return nil, err
	}

	nodes := make([]record, len(g.Nodes))
	for i, n := range g.Nodes {
		rec := record{
			"name":         nodeName(report.NodeID(i)),
			"border_width": positive(n.BorderWidth, 1),
			"colour":       n.Colour.Or(report.Blue).String(),
			"bgcolour":     n.Background.Or(report.LightBlue).String(),
			"rows":         valueRows(n.Rows),
		}
		rec["has_url"], rec["url"] = urlFields(n.URL)
		setBookmark(rec, n.Bookmark)
		nodes[i] = rec
	}

	edges := make([]record, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = record{
			"from":       nodeName(e.From),
			"to":         nodeName(e.To),
			"colour":     e.Colour.Or(report.Black).String(),
			"style":      e.Style.String(),
			"line_width": positive(e.LineWidth, 1),
			"constraint": !e.IgnoreInLayout,
			"has_label":  len(e.Label) > 0,
			"label":      report.Strings(e.Label),
		}
	}

	subgraphs := make([]record, len(g.Subgraphs))
	for i, s := range g.Subgraphs {
		members := make([]string, len(s.Nodes))
		for j, id := range s.Nodes {
			members[j] = nodeName(id)
		}
		rec := record{
			"name":      subgraphName(i),
			"colour":    s.Colour.Or(report.LightBlue).String(),
			"has_label": len(s.Rows) > 0,
			"rows":      valueRows(s.Rows),
			"nodes":     members,
		}
		rec["has_url"], rec["url"] = urlFields(s.URL)
		setBookmark(rec, s.Bookmark)
		subgraphs[i] = rec
	}

	return record{
		"rank_direction": g.RankDir.String(),
		"nodes":          nodes,
		"edges":          edges,
		"subgraphs":      subgraphs,
	}, nil
}

func validateGraph(g *report.Graph) error {
	for i, e := range g.Edges {
		if !g.Contains(e.From) {
			return errors.New(errors.ErrCodeInvalidGraphReference,
				"edge %d: source %d out of range [0, %d)", i, e.From, len(g.Nodes))
		}
		if !g.Contains(e.To) {
			return errors.New(errors.ErrCodeInvalidGraphReference,
				"edge %d: target %d out of range [0, %d)", i, e.To, len(g.Nodes))
		}
	}
	for i, s := range g.Subgraphs {
		for _, id := range s.Nodes {
			if !g.Contains(id) {
				return errors.New(errors.ErrCodeInvalidGraphReference,
					"subgraph %d: member %d out of range [0, %d)", i, id, len(g.Nodes))
			}
		}
	}
	return nil
}

func shortcutRecords(shortcuts []report.Shortcut) ([]record, error) {
	out := make([]record, len(shortcuts))
	for i, s := range shortcuts {
		if err := errors.ValidateShortcutName(s.Name); err != nil {
			return nil, err
		}
		code, err := report.KeyCode(s.Key)
		if err != nil {
			return nil, fmt.Errorf("shortcut %q: %w", s.Name, err)
		}
		out[i] = record{
			"name":     s.Name,
			"key_code": code,
			"key_char": string(s.Key),
		}
	}
	return out, nil
}

func valueRows(rows [][]report.Value) []record {
	out := make([]record, len(rows))
	for i, r := range rows {
		out[i] = record{"values": report.Strings(r)}
	}
	return out
}

func setBookmark(rec record, b *report.Value) {
	if b == nil {
		rec["has_bookmark"], rec["bookmark"] = false, ""
		return
	}
	rec["has_bookmark"], rec["bookmark"] = true, b.String()
}

func urlFields(u *url.URL) (bool, string) {
	if u == nil {
		return false, ""
	}
	return true, u.String()
}

func positive(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
