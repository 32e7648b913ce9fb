package manifest

import (
	"maps"
	"strings"
)

// Dependencies is the resolved view of a manifest and its parent: the
// merged property map and the dependency versions keyed by
// "groupId:artifactId".
//
// The zero value is not usable; resolution results are never nil, an
// unavailable manifest yields an empty Dependencies.
type Dependencies struct {
	Properties map[string]string `json:"properties" yaml:"properties" toml:"properties" bson:"properties"`
	Versions   map[string]string `json:"dependencies" yaml:"dependencies" toml:"dependencies" bson:"dependencies"`
}

// NewDependencies returns an empty result.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Properties: map[string]string{},
		Versions:   map[string]string{},
	}
}

// Value returns the property with the given name, or "" if undeclared.
func (d *Dependencies) Value(name string) string {
	if d == nil {
		return ""
	}
	return d.Properties[name]
}

// Version returns the resolved version of groupId:artifactId, or "" if the
// manifest does not declare it.
func (d *Dependencies) Version(groupID, artifactID string) string {
	if d == nil {
		return ""
	}
	return d.Versions[DependencyKey(groupID, artifactID)]
}

// Map returns a copy of the dependency versions.
func (d *Dependencies) Map() map[string]string {
	if d == nil {
		return map[string]string{}
	}
	return maps.Clone(d.Versions)
}

// Len returns the number of resolved dependencies.
func (d *Dependencies) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Versions)
}

// apply merges doc into d. Properties overwrite earlier values; the first
// declaration of a dependency key wins. A version placeholder without a
// matching property leaves the key unset so a later declaration can fill it.
func (d *Dependencies) apply(doc *Document) {
	for _, p := range doc.Properties {
		d.Properties[p.Name] = p.Value
	}
	for _, dep := range doc.Dependencies {
		version, ok := d.substitute(dep.Version)
		if !ok {
			continue
		}
		key := dep.Key()
		if _, seen := d.Versions[key]; !seen {
			d.Versions[key] = version
		}
	}
}

// substitute replaces a version of the form "...${name}..." with the value
// of property name. The name spans from the first "${" to the last "}".
func (d *Dependencies) substitute(version string) (string, bool) {
	start := strings.Index(version, "${")
	if start < 0 {
		return version, true
	}
	end := strings.LastIndex(version, "}")
	if end < start+2 {
		return version, true
	}
	value, ok := d.Properties[version[start+2:end]]
	return value, ok
}
