package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// WriteJSON writes doc in canonical form: every field present, sections and
// members in document order, two-space indentation. The output can be read
// back with [ReadJSON] against the same registry.
func WriteJSON(doc *topology.Document, w io.Writer) error {
	var buf bytes.Buffer

	buf.WriteString(`{"nodes":{`)
	for i, n := range doc.Nodes() {
		devclass := int(n.Class.ID)
		rec := nodeRecord{Name: n.Name, Options: n.Options, DevClass: &devclass}
		if err := writeMember(&buf, i, n.Name, rec); err != nil {
			return err
		}
	}
	buf.WriteString(`},"edges":{`)
	for i, e := range doc.Edges() {
		weight := e.Weight
		rec := edgeRecord{From: e.From.Name, To: e.To.Name, Options: e.Options, Weight: &weight}
		if e.Address != (topology.Address{}) {
			rec.Address = &addressRecord{Host: e.Address.Host, Port: e.Address.Port}
		}
		if err := writeMember(&buf, i, e.Name, rec); err != nil {
			return err
		}
	}
	buf.WriteString(`}}`)

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func writeMember(buf *bytes.Buffer, i int, key string, rec any) error {
	if i > 0 {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	v, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// ExportJSON writes doc to a file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *topology.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
