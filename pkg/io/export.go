package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

type document struct {
	Projects []*catalog.Project `json:"projects" yaml:"projects" toml:"projects"`
}

func newDocument(c *catalog.Catalog) document {
	doc := document{Projects: make([]*catalog.Project, 0, len(c.Projects))}
	for _, id := range c.ProjectIDs() {
		p, _ := c.Project(id)
		doc.Projects = append(doc.Projects, p)
	}
	return doc
}

// Write encodes a sorted catalog in the given format and writes it to w.
func Write(c *catalog.Catalog, format string, w io.Writer) error {
	switch format {
	case FormatJSON:
		return WriteJSON(c, w)
	case FormatYAML:
		return WriteYAML(c, w)
	case FormatTOML:
		return WriteTOML(c, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// WriteJSON encodes a catalog as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(c *catalog.Catalog, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(c)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML encodes a catalog as YAML and writes it to w.
func WriteYAML(c *catalog.Catalog, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(c)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteTOML encodes a catalog as TOML and writes it to w.
func WriteTOML(c *catalog.Catalog, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(newDocument(c)); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// Export writes a catalog to a file.
func Export(c *catalog.Catalog, format, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(c, format, f)
}

// ReadJSON decodes a JSON export. Project maps are rebuilt from the sorted
// lists, so the result behaves like a freshly built and sorted catalog.
func ReadJSON(r io.Reader) (*catalog.Catalog, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode catalog")
	}

	c := catalog.New()
	for i, p := range doc.Projects {
		if p == nil || p.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "project %d has no id", i)
		}
		if _, dup := c.Projects[p.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate project %q", p.ID)
		}
		p.Reindex()
		c.Projects[p.ID] = p
	}
	return c, nil
}

// ImportJSON reads a JSON export from a file.
func ImportJSON(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
