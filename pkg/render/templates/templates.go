package templates

import (
	"embed"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/matzehuels/stackreport/pkg/errors"
)

//go:embed defaults/*.tmpl
var defaultFS embed.FS

// ID names one of the six templates.
type ID int

const (
	Report ID = iota
	Multiline
	Branch
	Table
	Plot
	Graph

	count
)

// All lists every template id in load order.
var All = []ID{Report, Multiline, Branch, Table, Plot, Graph}

var names = [count]string{"report", "multiline", "branch", "table", "plot", "graph"}

// String returns the template name, e.g. "branch".
func (id ID) String() string {
	if id < 0 || id >= count {
		return "unknown"
	}
	return names[id]
}

// FileName returns the file name used in override directories.
func (id ID) FileName() string {
	return id.String() + ".tmpl"
}

// Record is the structured data handed to a template.
type Record = map[string]any

// Renderer renders a record through a named template.
type Renderer interface {
	Render(id ID, data any) (string, error)
}

// Store holds the parsed templates.
// A Store is immutable after construction and safe for concurrent use.
type Store struct {
	origin  string
	sources [count]string
	parsed  [count]*template.Template
}

// Default returns a store holding the built-in templates.
func Default() (*Store, error) {
	return build("built-in", func(id ID) (string, error) {
		data, err := defaultFS.ReadFile("defaults/" + id.FileName())
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "read built-in template %s", id.FileName())
		}
		return string(data), nil
	})
}

// Load returns a store holding the templates found in dir.
// Every one of the six files must be present; the first missing file
// fails with ErrCodeTemplateNotFound.
func Load(dir string) (*Store, error) {
	return build(dir, func(id ID) (string, error) {
		path := filepath.Join(dir, id.FileName())
		data, err := os.ReadFile(path)
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.New(errors.ErrCodeTemplateNotFound, "template %s not found in %s", id.FileName(), dir)
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeFilesystem, err, "read template %s", path)
		}
		return string(data), nil
	})
}

func build(origin string, read func(ID) (string, error)) (*Store, error) {
	s := &Store{origin: origin}
	for _, id := range All {
		src, err := read(id)
		if err != nil {
			return nil, err
		}
		t, err := template.New(id.FileName()).
			Option("missingkey=error").
			Funcs(funcs).
			Parse(src)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTemplateRender, err, "parse template %s (%s)", id.FileName(), origin)
		}
		s.sources[id] = src
		s.parsed[id] = t
	}
	return s, nil
}

// funcs is the sprig text function set plus escape.
var funcs = func() template.FuncMap {
	m := sprig.TxtFuncMap()
	m["escape"] = escape
	return m
}()

var escapeReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escape prepares s for use inside a double-quoted gnuplot or DOT string.
func escape(s any) string {
	switch v := s.(type) {
	case string:
		return escapeReplacer.Replace(v)
	case interface{ String() string }:
		return escapeReplacer.Replace(v.String())
	default:
		return ""
	}
}

// Render executes template id with data.
// Any failure, including a reference to a field data lacks, is reported
// as ErrCodeTemplateRender naming the template.
func (s *Store) Render(id ID, data any) (string, error) {
	if id < 0 || id >= count {
		return "", errors.New(errors.ErrCodeTemplateRender, "unknown template id %d", int(id))
	}
	var b strings.Builder
	if err := s.parsed[id].Execute(&b, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeTemplateRender, err, "render template %s", id.FileName())
	}
	return b.String(), nil
}

// Source returns the unparsed text of template id.
func (s *Store) Source(id ID) string {
	if id < 0 || id >= count {
		return ""
	}
	return s.sources[id]
}

// Origin returns "built-in" or the directory the store was loaded from.
func (s *Store) Origin() string {
	return s.origin
}

// Dump writes all six template sources into dir, creating it if needed.
// The result is a valid override directory for [Load].
func (s *Store) Dump(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", dir)
	}
	for _, id := range All {
		path := filepath.Join(dir, id.FileName())
		if err := os.WriteFile(path, []byte(s.sources[id]), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
		}
	}
	return nil
}

var _ Renderer = (*Store)(nil)
