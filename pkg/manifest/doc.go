// Package manifest fetches, caches and resolves release manifests (POM files).
//
// # Overview
//
// A release's dependency versions come from its published manifest and, when
// it declares one, a parent manifest. The package has three layers:
//
//   - [Parse] / [Document.Encode]: namespace-free reading of the parts of a
//     POM that matter here (parent, properties, dependencies)
//   - [Store]: cache-first retrieval with one fetch per coordinate
//   - [Resolver]: parent-first merge with ${property} substitution
//
// # Caching
//
// The store keys cache entries by [Coordinate.FileName], for example
// "hibernate-core-4.0.0.Beta1.pom". A cached manifest is used without any
// network access. A downloaded manifest is written back in normalized form.
// Failed downloads are never written.
//
// # Strictness
//
// [Store.Fetch] reports every failure as a [*FetchError]. The [Resolver]
// decides what that means: in strict mode the error is returned, otherwise a
// warning is logged and resolution continues with whatever data is left.
//
// # Usage
//
//	repo, _ := maven.NewClient("", integrations.Options{})
//	store := manifest.NewStore(repo, fileCache, logger)
//	resolver := manifest.NewResolver(store, manifest.Options{Logger: logger})
//
//	deps, err := resolver.Resolve(ctx, manifest.Coordinate{
//	    GroupID: "org.hibernate", ArtifactID: "hibernate-search", Version: "3.4.0.Final",
//	})
//	fmt.Println(deps.Version("org.hibernate", "hibernate-core"))
package manifest
