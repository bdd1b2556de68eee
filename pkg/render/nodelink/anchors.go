package nodelink

import (
	"bytes"

	"github.com/matzehuels/stackreport/pkg/errors"
)

var (
	anchorGroup = []byte(`<g id="a_`)
	textOpen    = []byte(`<text `)
	groupClose  = []byte(`</g>`)
)

// RelocateAnchorIDs rewrites every `<g id="a_X">` group in svg: the id
// attribute is removed from the group and `id="X" ` is inserted directly
// after the first `<text ` inside it.
//
// Groups without a text element before their closing tag are left as is.
// An id attribute with no closing quote means the SVG is not in the shape
// Graphviz produces and is reported as ErrCodeGraphToolFailure.
func RelocateAnchorIDs(svg []byte) ([]byte, error) {
	out, _, err := RelocateAnchors(svg)
	return out, err
}

// RelocateAnchors is [RelocateAnchorIDs] that also returns the ids of the
// groups it left in place because they hold no text element. A cluster
// with a URL and no label is the usual cause; anything else points at a
// change in the Graphviz output format.
func RelocateAnchors(svg []byte) ([]byte, []string, error) {
	var skipped []string
	out := svg
	pos := 0
	for {
		i := bytes.Index(out[pos:], anchorGroup)
		if i < 0 {
			return out, skipped, nil
		}
		i += pos

		valStart := i + len(anchorGroup)
		q := bytes.IndexByte(out[valStart:], '"')
		if q < 0 {
			return nil, nil, errors.New(errors.ErrCodeGraphToolFailure, "unterminated anchor id at offset %d", i)
		}
		valEnd := valStart + q
		attrEnd := valEnd + 1 // past the closing quote

		text := indexFrom(out, textOpen, attrEnd)
		end := indexFrom(out, groupClose, attrEnd)
		if text < 0 || (end >= 0 && end < text) {
			skipped = append(skipped, string(out[valStart:valEnd]))
			pos = attrEnd
			continue
		}

		insert := make([]byte, 0, valEnd-valStart+6)
		insert = append(insert, `id="`...)
		insert = append(insert, out[valStart:valEnd]...)
		insert = append(insert, `" `...)

		at := text + len(textOpen)
		next := make([]byte, 0, len(out)+len(insert))
		next = append(next, out[:i+2]...) // keep "<g"
		next = append(next, out[attrEnd:at]...)
		next = append(next, insert...)
		pos = len(next)
		next = append(next, out[at:]...)
		out = next
	}
}

func indexFrom(s, sep []byte, from int) int {
	i := bytes.Index(s[from:], sep)
	if i < 0 {
		return -1
	}
	return from + i
}
