// Package io reads and writes release catalogs as JSON, YAML and TOML.
//
// # Format
//
// Every format carries the same document: the projects in id order, each
// with its releases and release series newest first.
//
//	{
//	  "projects": [
//	    {
//	      "id": "orm",
//	      "releases": [{"version": "5.1.1.Final", "version_family": "5.1", ...}],
//	      "release_series": [{"version": "5.1", "releases": [...]}]
//	    }
//	  ]
//	}
//
// Releases that received dependency data carry a "dependencies" object with
// the resolved "properties" and "dependencies" maps.
//
// # Import
//
// [ReadJSON] and [ImportJSON] read a JSON export back into a
// [catalog.Catalog] so commands like browse and publish can work from a
// snapshot instead of rebuilding.
//
// [catalog.Catalog]: github.com/matzehuels/relcat/pkg/catalog.Catalog
package io
