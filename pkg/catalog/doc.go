// Package catalog builds per-project release catalogs from YAML descriptors.
//
// # Layout
//
// Each project keeps its descriptors in a directory named "releases"; the
// project id is the name of the directory above it:
//
//	_data/
//	  orm/releases/
//	    5.1/
//	      series.yml
//	      5.1.0.Final.yml
//	      5.1.1.Final.yml
//	    3.6.10.Final.yml        (legacy: version_family: "3.6")
//
// A subdirectory is a series (see [SeriesGrouped]); its series.yml is
// optional and its version defaults to the directory name. A plain file is a
// legacy release (see [LegacyFlat]) whose version_family names an implicit
// series. Release versions default to the file name without ".yml".
//
// # Pipeline
//
//	cat, err := catalog.Scan("_data")         // build
//	catalog.SortCatalog(cat)                  // order newest first
//	catalog.AttachDependencies(ctx, cat.Projects["orm"], coords, resolver, opts)
//
// [Scan] and [BuildReleases] fail fast on malformed descriptors: the error
// carries the INVALID_DESCRIPTOR code and no partial project is returned.
//
// # Ordering
//
// [SortProject] orders releases and series by [version.Compare], newest
// first. Descriptor keys the catalog does not model are kept in the Extra
// maps so exports stay complete.
//
// [version.Compare]: github.com/matzehuels/relcat/pkg/version.Compare
package catalog
