package catalog

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/relcat/pkg/errors"
)

func TestScan(t *testing.T) {
	data := t.TempDir()
	writeTree(t, data, map[string]string{
		"orm/releases/5.1/5.1.0.Final.yml":             "",
		"orm/releases/3.6.10.Final.yml":                "version_family: 3.6\n",
		"orm/description.yml":                          "name: Hibernate ORM\n",
		"projects/search/releases/5.5/5.5.0.Final.yml": "",
		"validator/releases/6.0/6.0.0.Final.yml":       "",
		"validator/releases/6.0/notes/README.md":       "nested directories are ignored",
		".trash/old/releases/1.0/1.0.0.Final.yml":      "",
	})

	cat, err := Scan(data)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if got := cat.ProjectIDs(); !reflect.DeepEqual(got, []string{"orm", "search", "validator"}) {
		t.Fatalf("ProjectIDs() = %v", got)
	}
	orm, _ := cat.Project("orm")
	if len(orm.Releases) != 2 || len(orm.ReleaseSeries) != 2 {
		t.Errorf("orm: %d releases, %d series; want 2, 2", len(orm.Releases), len(orm.ReleaseSeries))
	}

	dirs, err := ReleaseDirs(data)
	if err != nil {
		t.Fatalf("ReleaseDirs() error: %v", err)
	}
	if len(dirs) != 3 || filepath.Base(dirs[0]) != "releases" {
		t.Errorf("ReleaseDirs() = %v", dirs)
	}
}

func TestScanFailsOnBadDescriptor(t *testing.T) {
	data := t.TempDir()
	writeTree(t, data, map[string]string{
		"orm/releases/5.1/5.1.0.Final.yml": "",
		"search/releases/5.5.0.Final.json": "{}",
	})

	_, err := Scan(data)
	if !errors.Is(err, errors.ErrCodeInvalidDescriptor) {
		t.Errorf("Scan() error = %v, want INVALID_DESCRIPTOR", err)
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Scan() error = %v, want INVALID_PATH", err)
	}
}
