package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/relcat/pkg/errors"
)

const (
	seriesFile    = "series.yml"
	descriptorExt = ".yml"
)

// scalar keeps a YAML scalar exactly as written, so "3.6" and 3.6 both
// read as "3.6" and a date stays "2016-02-10".
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New(errors.ErrCodeInvalidDescriptor, "line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = scalar(node.Value)
	return nil
}

type seriesDescriptor struct {
	Version   scalar         `yaml:"version"`
	Displayed *bool          `yaml:"displayed"`
	Extra     map[string]any `yaml:",inline"`
}

type releaseDescriptor struct {
	Version         scalar         `yaml:"version"`
	VersionFamily   scalar         `yaml:"version_family"`
	Date            scalar         `yaml:"date"`
	Stable          *bool          `yaml:"stable"`
	AnnouncementURL string         `yaml:"announcement_url"`
	Summary         string         `yaml:"summary"`
	Displayed       *bool          `yaml:"displayed"`
	GroupID         string         `yaml:"group_id"`
	Extra           map[string]any `yaml:",inline"`
}

// loadSeries reads dir/series.yml. A missing file is an empty descriptor.
// The version defaults to the directory name.
func loadSeries(dir string) (*Series, error) {
	var d seriesDescriptor
	if err := decodeFile(filepath.Join(dir, seriesFile), &d, true); err != nil {
		return nil, err
	}
	s := &Series{
		Version:   string(d.Version),
		Displayed: d.Displayed,
		Extra:     nonEmpty(d.Extra),
	}
	if s.Version == "" {
		s.Version = filepath.Base(dir)
	}
	return s, nil
}

// loadRelease reads a release descriptor. The version defaults to the file
// name without its extension.
func loadRelease(path string) (*Release, error) {
	name := filepath.Base(path)
	if filepath.Ext(name) != descriptorExt {
		return nil, errors.New(errors.ErrCodeInvalidDescriptor,
			"release file %s does not have the YAML (.yml) extension", path)
	}

	var d releaseDescriptor
	if err := decodeFile(path, &d, false); err != nil {
		return nil, err
	}
	r := &Release{
		Version:         string(d.Version),
		VersionFamily:   string(d.VersionFamily),
		Date:            string(d.Date),
		Stable:          d.Stable,
		AnnouncementURL: d.AnnouncementURL,
		Summary:         d.Summary,
		Displayed:       d.Displayed,
		GroupID:         d.GroupID,
		Extra:           nonEmpty(d.Extra),
	}
	if r.Version == "" {
		r.Version = strings.TrimSuffix(name, descriptorExt)
	}
	return r, nil
}

func decodeFile(path string, out any, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "parse %s", path)
	}
	return nil
}

func nonEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}
