package report

// Colour is a colour name understood by both browsers and Graphviz
// (the X11/SVG colour names), or a "#rrggbb" literal.
type Colour string

// Named colours used by the model defaults and common in reports.
const (
	Black     Colour = "black"
	White     Colour = "white"
	Blue      Colour = "blue"
	LightBlue Colour = "lightblue"
	Red       Colour = "red"
	Green     Colour = "green"
	Orange    Colour = "orange"
	Grey      Colour = "grey"
	LightGrey Colour = "lightgrey"
	Yellow    Colour = "yellow"
)

// Or returns c, or def when c is empty.
func (c Colour) Or(def Colour) Colour {
	if c == "" {
		return def
	}
	return c
}

// String returns the colour name.
func (c Colour) String() string { return string(c) }
