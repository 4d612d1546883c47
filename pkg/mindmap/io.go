package mindmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mindtower/pkg/engine"
)

// ErrNoNodes is returned when input JSON has no "nodes" array.
var ErrNoNodes = errors.New(`missing "nodes" array`)

// ReadDocument decodes a document or plain ingestion data from r.
//
// The node list is not validated beyond JSON shape; structural repairs
// happen when the document is restored into an engine. ReadDocument does
// not close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var raw struct {
		Document
		Nodes *[]PersistedNode `json:"nodes"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if raw.Nodes == nil {
		return nil, ErrNoNodes
	}
	doc := raw.Document
	doc.Nodes = *raw.Nodes
	return &doc, nil
}

// ReadDocumentFile reads the document at path.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadData decodes ingestion data from r.
func ReadData(r io.Reader) (Data, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return Data{}, err
	}
	return doc.Data(), nil
}

// WriteDocument encodes doc as indented JSON.
func WriteDocument(w io.Writer, doc *Document) error {
	return writeJSON(w, doc)
}

// WriteDocumentFile writes doc to path.
func WriteDocumentFile(doc *Document, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteDocument(w, doc) })
}

// WriteSnapshot encodes snap as indented JSON.
func WriteSnapshot(w io.Writer, snap engine.Snapshot) error {
	return writeJSON(w, snap)
}

// WriteSnapshotFile writes snap to path.
func WriteSnapshotFile(snap engine.Snapshot, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteSnapshot(w, snap) })
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
