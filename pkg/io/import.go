package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// ErrNameMismatch is returned when a node key differs from the node's name or
// a node key appears twice.
var ErrNameMismatch = errors.New("duplicate name or mismatched key/name")

// ErrTrailingData is returned when anything but whitespace follows the
// document object.
var ErrTrailingData = errors.New("trailing data after document")

type keyed[T any] struct {
	key string
	rec T
}

// ReadJSON decodes a document from r, resolving device classes in reg.
//
// Every failure, including malformed JSON, is an error with code
// INVALID_DOCUMENT that wraps the specific cause (for example
// [ErrNameMismatch], [topology.ErrUnknownNode] or
// [topology.ErrUnknownDeviceClass]). ReadJSON does not close r.
func ReadJSON(r io.Reader, reg topology.Registry) (*topology.Document, error) {
	nodes, edges, err := decode(r)
	if err != nil {
		return nil, invalid(err, "decode")
	}

	b := topology.NewBuilder(reg)
	for _, n := range nodes {
		if err := checkRecord(n.rec); err != nil {
			return nil, invalid(err, "node %q", n.key)
		}
		if n.key != n.rec.Name {
			return nil, invalid(ErrNameMismatch, "node %q (name %q)", n.key, n.rec.Name)
		}
		err := b.AddNode(n.rec.Name, n.rec.Options, topology.ClassID(*n.rec.DevClass))
		if errors.Is(err, topology.ErrDuplicateNode) {
			err = ErrNameMismatch
		}
		if err != nil {
			return nil, invalid(err, "node %q", n.key)
		}
	}
	for _, e := range edges {
		if err := checkRecord(e.rec); err != nil {
			return nil, invalid(err, "edge %q", e.key)
		}
		var addr topology.Address
		if e.rec.Address != nil {
			addr = topology.Address{Host: e.rec.Address.Host, Port: e.rec.Address.Port}
		}
		if err := b.AddEdge(e.key, e.rec.From, e.rec.To, addr, e.rec.Options, *e.rec.Weight); err != nil {
			return nil, invalid(err, "edge %q", e.key)
		}
	}

	return b.Build(), nil
}

// ImportJSON reads the document at path. The file is closed on every path.
// A missing file yields code FILE_NOT_FOUND; otherwise errors match [ReadJSON].
func ImportJSON(path string, reg topology.Registry) (*topology.Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, reg)
}

func invalid(cause error, format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeInvalidDocument, cause, format, args...)
}

// decode splits the document into its node and edge records, in file order.
func decode(r io.Reader) ([]keyed[nodeRecord], []keyed[edgeRecord], error) {
	var (
		nodes    []keyed[nodeRecord]
		edges    []keyed[edgeRecord]
		sections = map[string]bool{}
	)

	dec := json.NewDecoder(r)
	err := eachMember(dec, func(section string) error {
		if sections[section] {
			return fmt.Errorf("duplicate section %q", section)
		}
		sections[section] = true

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		switch section {
		case "nodes":
			out, err := decodeSection[nodeRecord](raw)
			nodes = out
			if err != nil {
				return fmt.Errorf("nodes: %w", err)
			}
		case "edges":
			out, err := decodeSection[edgeRecord](raw)
			edges = out
			if err != nil {
				return fmt.Errorf("edges: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, ErrTrailingData
	}
	return nodes, edges, nil
}

func decodeSection[T any](raw json.RawMessage) ([]keyed[T], error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var out []keyed[T]
	seen := map[string]bool{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	err := eachMember(dec, func(key string) error {
		if seen[key] {
			return fmt.Errorf("%q: %w", key, ErrNameMismatch)
		}
		seen[key] = true

		var rec T
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		out = append(out, keyed[T]{key: key, rec: rec})
		return nil
	})
	return out, err
}

// eachMember walks a JSON object, calling fn with each key. fn must consume
// the member's value from dec.
func eachMember(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func checkRecord(rec any) error {
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports the first failed constraint as field: reason.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		// Namespace is "<struct>.<field>"; drop the unexported struct name.
		_, field, _ := strings.Cut(e.Namespace(), ".")
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
