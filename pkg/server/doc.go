// Package server exposes a built catalog over a read-only JSON HTTP API.
//
// The server holds one catalog at a time. [Server.Rebuild] swaps in a freshly
// built catalog; readers never observe a partially built one. [Server.Watch]
// triggers rebuilds when descriptor files under the data directory change.
//
// Routes:
//
//	GET  /healthz                             build status
//	GET  /projects                            project summaries
//	GET  /projects/{id}                       one project, sorted
//	GET  /projects/{id}/series/{version}      one release series
//	GET  /projects/{id}/releases/{version}    one release
//	POST /rebuild                             rebuild now
package server
