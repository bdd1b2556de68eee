package cache

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey returns the key for a rendered document.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts lists the render settings that change the output for the
// same document.
type RenderKeyOpts struct {
	Templates   string   `json:"templates"` // hash of the six template sources
	Shortcuts   []string `json:"shortcuts,omitempty"`
	PlotTool    string   `json:"plot_tool"`
	GraphTool   string   `json:"graph_tool"`
	GraphEngine string   `json:"graph_engine"`
}

// DefaultKeyer produces "render:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey hashes docHash together with opts.
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}

var _ Keyer = DefaultKeyer{}
