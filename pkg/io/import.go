package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/stackreport/pkg/errors"
)

// ReadJSON decodes a document from r.
//
// ReadJSON returns an ErrCodeInvalidFormat error if:
//   - The JSON is malformed or has unknown fields
//   - The root is missing, or a node has zero or several type keys
//   - A value is neither a string nor a number
//   - A url does not parse, or a rank_dir or edge style is unknown
//   - A shortcut key is not exactly one character
//
// Errors name the node path that caused them, e.g. "root/children[2]".
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var data document
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return data.toReport()
}

// ImportJSON reads a document file at path.
// A missing file is reported as ErrCodeFileNotFound.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
