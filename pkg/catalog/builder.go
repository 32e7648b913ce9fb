package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/relcat/pkg/errors"
)

// DescriptorSource is one entry of a releases directory, classified once
// while walking it: either a [SeriesGrouped] directory or a [LegacyFlat]
// release file.
type DescriptorSource interface {
	Path() string
	descriptorSource()
}

// SeriesGrouped is a series directory holding series.yml and one
// descriptor per release.
type SeriesGrouped struct{ Dir string }

// LegacyFlat is a release descriptor placed directly in the releases
// directory. Its series comes from its version_family field.
type LegacyFlat struct{ File string }

func (s SeriesGrouped) Path() string { return s.Dir }
func (s LegacyFlat) Path() string    { return s.File }

func (SeriesGrouped) descriptorSource() {}
func (LegacyFlat) descriptorSource()    {}

// Sources lists the entries of releasesDir in file name order. Hidden
// directories are skipped; hidden files are still descriptors. Symbolic
// links are classified by their target.
func Sources(releasesDir string) ([]DescriptorSource, error) {
	entries, err := os.ReadDir(releasesDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read releases directory")
	}

	var sources []DescriptorSource
	for _, e := range entries {
		path := filepath.Join(releasesDir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
		}
		switch {
		case info.IsDir() && isHidden(e.Name()):
		case info.IsDir():
			sources = append(sources, SeriesGrouped{Dir: path})
		default:
			sources = append(sources, LegacyFlat{File: path})
		}
	}
	return sources, nil
}

// BuildReleases reads a releases directory into an unsorted project.
//
// Any descriptor error is fatal and no project is returned: a release file
// without the .yml extension, YAML that does not parse, or a legacy release
// without version_family.
func BuildReleases(releasesDir, projectID string) (*Project, error) {
	p := NewProject(projectID)
	if err := buildInto(p, releasesDir); err != nil {
		return nil, err
	}
	return p, nil
}

func buildInto(p *Project, releasesDir string) error {
	sources, err := Sources(releasesDir)
	if err != nil {
		return err
	}
	for _, src := range sources {
		switch src := src.(type) {
		case SeriesGrouped:
			err = addSeriesDir(p, src)
		case LegacyFlat:
			err = addLegacyRelease(p, src)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func addSeriesDir(p *Project, src SeriesGrouped) error {
	series, err := loadSeries(src.Dir)
	if err != nil {
		return err
	}
	p.addSeries(series)

	entries, err := os.ReadDir(src.Dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read series directory")
	}
	for _, e := range entries {
		if e.Name() == seriesFile {
			continue
		}
		path := filepath.Join(src.Dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
		}
		if info.IsDir() {
			continue
		}
		release, err := loadRelease(path)
		if err != nil {
			return err
		}
		release.VersionFamily = series.Version
		series.Releases = append(series.Releases, release)
		p.addRelease(release)
	}
	return nil
}

func addLegacyRelease(p *Project, src LegacyFlat) error {
	release, err := loadRelease(src.File)
	if err != nil {
		return err
	}
	if release.VersionFamily == "" {
		return errors.New(errors.ErrCodeInvalidDescriptor,
			"release file %s has no version_family", src.File)
	}
	p.addRelease(release)

	series, ok := p.ReleaseSeries[release.VersionFamily]
	if !ok {
		series = &Series{Version: release.VersionFamily}
		p.addSeries(series)
	}
	if series.Displayed == nil || !*series.Displayed {
		series.Displayed = release.Displayed
	}
	series.Releases = append(series.Releases, release)
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
