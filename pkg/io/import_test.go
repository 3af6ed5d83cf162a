package io

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

const sample = `{
  "nodes": {
    "A": {"name": "A", "options": 0, "devclass": 0},
    "B": {"name": "B", "options": 5, "devclass": 2}
  },
  "edges": {
    "A_to_B": {
      "from": "A", "to": "B",
      "address": {"host": "127.0.0.1", "port": 22643},
      "options": 1, "weight": 6
    }
  }
}`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sample), topology.DefaultRegistry())
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	if doc.NodeCount() != 2 || doc.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges, want 2, 1", doc.NodeCount(), doc.EdgeCount())
	}

	b, ok := doc.Node("B")
	if !ok {
		t.Fatal("node B missing")
	}
	if b.Options != 5 || b.Class.Name != "portable" {
		t.Errorf("node B = %+v", b)
	}

	e, ok := doc.Edge("A_to_B")
	if !ok {
		t.Fatal("edge A_to_B missing")
	}
	if e.From.Name != "A" || e.To.Name != "B" {
		t.Errorf("edge endpoints = %s->%s, want A->B", e.From.Name, e.To.Name)
	}
	if e.Weight != 6 || e.Options != 1 {
		t.Errorf("edge = %+v", e)
	}
	if got := e.Address.String(); got != "127.0.0.1:22643" {
		t.Errorf("address = %q", got)
	}
}

func TestReadJSONOptionalFields(t *testing.T) {
	in := `{"nodes": {"a": {"name": "a", "devclass": 3}},
	        "edges": {"loop": {"from": "a", "to": "a", "weight": 0.5}}}`
	doc, err := ReadJSON(strings.NewReader(in), topology.DefaultRegistry())
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	e, _ := doc.Edge("loop")
	if e.Address != (topology.Address{}) || e.Options != 0 {
		t.Errorf("optional fields not zero: %+v", e)
	}
}

func TestReadJSONOrder(t *testing.T) {
	// Edges come first in the file; nodes still register before edges.
	in := `{"edges": {"z": {"from": "n2", "to": "n1", "weight": 1},
	                  "a": {"from": "n1", "to": "n2", "weight": 1}},
	        "nodes": {"n2": {"name": "n2", "devclass": 0},
	                  "n1": {"name": "n1", "devclass": 0}}}`
	doc, err := ReadJSON(strings.NewReader(in), topology.DefaultRegistry())
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if got := doc.NodeNames(); got[0] != "n2" || got[1] != "n1" {
		t.Errorf("node order = %v, want [n2 n1]", got)
	}
	edges := doc.Edges()
	if edges[0].Name != "z" || edges[1].Name != "a" {
		t.Errorf("edge order = %s, %s, want z, a", edges[0].Name, edges[1].Name)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
		msg   string
	}{
		{
			name:  "key name mismatch",
			input: `{"nodes": {"A": {"name": "X", "devclass": 0}}}`,
			cause: ErrNameMismatch,
		},
		{
			name:  "duplicate node key",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}, "A": {"name": "A", "devclass": 1}}}`,
			cause: ErrNameMismatch,
		},
		{
			name: "unknown from",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}},
			         "edges": {"e": {"from": "Q", "to": "A", "weight": 1}}}`,
			cause: topology.ErrUnknownNode,
		},
		{
			name: "unknown to",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}},
			         "edges": {"e": {"from": "A", "to": "Q", "weight": 1}}}`,
			cause: topology.ErrUnknownNode,
		},
		{
			name:  "unknown device class",
			input: `{"nodes": {"A": {"name": "A", "devclass": 7}}}`,
			cause: topology.ErrUnknownDeviceClass,
		},
		{
			name:  "negative device class",
			input: `{"nodes": {"A": {"name": "A", "devclass": -1}}}`,
			msg:   "devclass: must be at least 0",
		},
		{
			name:  "missing device class",
			input: `{"nodes": {"A": {"name": "A"}}}`,
			msg:   "devclass: field is required",
		},
		{
			name:  "empty name",
			input: `{"nodes": {"": {"name": "", "devclass": 0}}}`,
			msg:   "name: field is required",
		},
		{
			name: "missing weight",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}},
			         "edges": {"e": {"from": "A", "to": "A"}}}`,
			msg: "weight: field is required",
		},
		{
			name: "port out of range",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}},
			         "edges": {"e": {"from": "A", "to": "A", "weight": 1,
			                         "address": {"host": "h", "port": 70000}}}}`,
			msg: "address.port: must not exceed 65535",
		},
		{
			name: "duplicate edge key",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}},
			         "edges": {"e": {"from": "A", "to": "A", "weight": 1},
			                   "e": {"from": "A", "to": "A", "weight": 2}}}`,
			cause: ErrNameMismatch,
		},
		{
			name:  "malformed json",
			input: `{"nodes": {`,
		},
		{
			name:  "trailing garbage",
			input: `{"nodes": {"A": {"name": "A", "devclass": 0}}, "edges": {}} this is not json {`,
			cause: ErrTrailingData,
		},
		{
			name:  "second document",
			input: `{"nodes": {}} {"nodes": {}}`,
			cause: ErrTrailingData,
		},
		{
			name:  "not an object",
			input: `[1, 2]`,
			msg:   "expected object",
		},
		{
			name:  "wrong field type",
			input: `{"nodes": {"A": {"name": "A", "devclass": "zero"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadJSON(strings.NewReader(tt.input), topology.DefaultRegistry())
			if err == nil {
				t.Fatal("ReadJSON() expected error")
			}
			if doc != nil {
				t.Error("ReadJSON() returned a partial document")
			}
			if !apperrors.IsValidation(err) {
				t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeInvalidDocument)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestReadJSONEmpty(t *testing.T) {
	for _, in := range []string{`{}`, `{"nodes": null, "edges": null}`, `{"nodes": {}, "edges": {}}`, "{}\n\t \n"} {
		doc, err := ReadJSON(strings.NewReader(in), topology.DefaultRegistry())
		if err != nil {
			t.Errorf("ReadJSON(%s) error: %v", in, err)
			continue
		}
		if doc.NodeCount() != 0 || doc.EdgeCount() != 0 {
			t.Errorf("ReadJSON(%s) not empty", in)
		}
	}
}

func TestImportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.json")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ImportJSON(path, topology.DefaultRegistry())
	if err != nil {
		t.Fatalf("ImportJSON error: %v", err)
	}
	if doc.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", doc.NodeCount())
	}

	_, err = ImportJSON(filepath.Join(dir, "missing.json"), topology.DefaultRegistry())
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeFileNotFound)
	}
}
