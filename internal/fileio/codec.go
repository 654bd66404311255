// Package fileio reads and writes diagrams: the JSON and YAML document
// formats, the legacy FLOWCHART text format, and PNG and plain-text exports.
package fileio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"flowdraw/internal/diagram"
)

var (
	ErrUnknownFormat    = errors.New("unknown file format")
	ErrNothingToExport  = errors.New("nothing to export")
	ErrInvalidFlowchart = errors.New("invalid flowchart file")
	ErrExportTooLarge   = errors.New("diagram too large to export")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the document format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

func Encode(w io.Writer, d *diagram.Diagram, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("encode %q: %w", f, ErrUnknownFormat)
}

// Decode parses a document. The result is not normalized; the store repairs
// it on load.
func Decode(r io.Reader, f Format) (*diagram.Diagram, error) {
	var d diagram.Diagram
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode %q: %w", f, ErrUnknownFormat)
	}
	return &d, nil
}

// Save writes d to path in the format named by its extension. The file is
// only replaced once the whole document has been encoded.
func Save(path string, d *diagram.Diagram) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, d, f); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*diagram.Diagram, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}
