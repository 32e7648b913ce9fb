package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/relcat/pkg/errors"
)

// Document is the subset of a POM that dependency resolution needs.
// Element names are matched without namespaces.
type Document struct {
	Parent       *Coordinate  // First <parent> element, nil when absent
	Properties   []Property   // Children of every <properties> element, in order
	Dependencies []Dependency // Every <dependency> element, in order
}

// Property is a single entry of a <properties> block.
type Property struct {
	Name  string
	Value string
}

// Dependency is a declared dependency. Version may be empty or hold an
// unresolved ${...} placeholder.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// Key returns "groupId:artifactId".
func (d Dependency) Key() string { return DependencyKey(d.GroupID, d.ArtifactID) }

type frame struct {
	name string
	text strings.Builder
}

// Parse reads a POM. Any well-formed XML document rooted at <project> is
// accepted; the returned error has code INVALID_MANIFEST otherwise.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	doc := &Document{}
	var (
		stack       []*frame
		dep         *Dependency
		depDepth    int
		parent      *Coordinate
		parentDepth int
		parentSeen  bool
		root        string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "malformed manifest")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if root == "" {
				root = name
			}
			stack = append(stack, &frame{name: name})
			switch {
			case name == "dependency" && dep == nil:
				dep, depDepth = &Dependency{}, len(stack)
			case name == "parent" && !parentSeen:
				parent, parentDepth, parentSeen = &Coordinate{}, len(stack), true
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			text := f.text.String()
			depth := len(stack) + 1

			if len(stack) > 0 {
				p := stack[len(stack)-1]
				p.text.WriteString(text)

				if p.name == "properties" {
					doc.Properties = append(doc.Properties, Property{Name: f.name, Value: text})
				}
				if dep != nil && depth == depDepth+1 {
					setField(&dep.GroupID, &dep.ArtifactID, &dep.Version, f.name, text)
				}
				if parent != nil && depth == parentDepth+1 {
					setField(&parent.GroupID, &parent.ArtifactID, &parent.Version, f.name, text)
				}
			}

			if dep != nil && depth == depDepth {
				doc.Dependencies = append(doc.Dependencies, *dep)
				dep = nil
			}
			if parent != nil && depth == parentDepth {
				doc.Parent = parent
				parent = nil
			}
		}
	}

	if root != "project" {
		if root == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "empty manifest")
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unexpected root element <%s>", root)
	}
	return doc, nil
}

func setField(group, artifact, version *string, name, text string) {
	text = strings.TrimSpace(text)
	switch name {
	case "groupId":
		*group = text
	case "artifactId":
		*artifact = text
	case "version":
		*version = text
	}
}

// charsetReader accepts the encodings POMs declare in practice besides UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return input, nil
	case "iso-8859-1", "latin1", "latin-1":
		data, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 0, len(data))
		for _, b := range data {
			buf = utf8.AppendRune(buf, rune(b))
		}
		return bytes.NewReader(buf), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

type pomXML struct {
	XMLName      xml.Name  `xml:"project"`
	Parent       *coordXML `xml:"parent,omitempty"`
	Properties   *propsXML `xml:"properties,omitempty"`
	Dependencies []coordXML `xml:"dependencies>dependency"`
}

type coordXML struct {
	GroupID    string `xml:"groupId,omitempty"`
	ArtifactID string `xml:"artifactId,omitempty"`
	Version    string `xml:"version,omitempty"`
}

type propsXML struct {
	Entries []propXML
}

type propXML struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Encode writes the normalized form of d: namespace free, reduced to the
// parent, properties and dependencies. Parse(Encode(d)) yields an equal
// Document.
func (d *Document) Encode() ([]byte, error) {
	out := pomXML{}
	if d.Parent != nil {
		out.Parent = &coordXML{d.Parent.GroupID, d.Parent.ArtifactID, d.Parent.Version}
	}
	if len(d.Properties) > 0 {
		out.Properties = &propsXML{}
		for _, p := range d.Properties {
			out.Properties.Entries = append(out.Properties.Entries,
				propXML{XMLName: xml.Name{Local: p.Name}, Value: p.Value})
		}
	}
	for _, dep := range d.Dependencies {
		out.Dependencies = append(out.Dependencies, coordXML(dep))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode manifest")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
