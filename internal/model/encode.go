package model

import (
	"encoding/json"
	"io"
	"os"
)

// EncodeDocument writes doc as UTF-8 JSON with two-space indentation.
// HTML characters are written as-is.
func EncodeDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// SaveDocument writes doc to path, replacing any existing file. Failures are
// reported as *SerializationError.
func SaveDocument(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	if err := EncodeDocument(f, doc); err != nil {
		f.Close()
		return &SerializationError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}
