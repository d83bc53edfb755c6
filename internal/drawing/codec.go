package drawing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInputRead marks any failure to read or parse a drawing input file.
// Callers use errors.Is against it to distinguish unreadable input from
// engine failures.
var ErrInputRead = errors.New("drawing input unreadable")

// Decode parses a drawing document from the JSON interchange format.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputRead, err)
	}
	doc.normalize()
	return &doc, nil
}

// DecodeFile parses the JSON interchange file at path.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputRead, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the document in the JSON interchange format.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
