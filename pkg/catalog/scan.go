package catalog

import (
	"io/fs"
	"path/filepath"

	"github.com/matzehuels/relcat/pkg/errors"
)

// releasesDirName marks the directories that hold release descriptors.
const releasesDirName = "releases"

// Scan walks dataDir and builds every project found in it. A directory
// named "releases" belongs to the project named after its parent directory;
// the walk does not descend into it. Hidden directories are skipped.
//
// Projects are not sorted. The first descriptor error aborts the scan.
func Scan(dataDir string) (*Catalog, error) {
	if err := errors.ValidatePath(dataDir); err != nil {
		return nil, err
	}

	cat := New()
	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", path)
		}
		if !d.IsDir() || path == dataDir {
			return nil
		}
		if isHidden(d.Name()) {
			return fs.SkipDir
		}
		if d.Name() != releasesDirName {
			return nil
		}

		id := filepath.Base(filepath.Dir(path))
		if err := buildInto(cat.project(id), path); err != nil {
			return err
		}
		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// ReleaseDirs returns every releases directory below dataDir, in walk order.
func ReleaseDirs(dataDir string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == dataDir {
			return nil
		}
		if isHidden(d.Name()) {
			return fs.SkipDir
		}
		if d.Name() == releasesDirName {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
