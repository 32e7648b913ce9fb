// Package nodelink renders release catalogs as node-link diagrams.
//
// # Overview
//
// Two diagrams are available:
//
//   - [ProjectGraph]: a project, its series and the newest release of each
//   - [SeriesGraph]: the newest release of one series and its resolved
//     dependencies
//
// # Usage
//
//	g, err := nodelink.SeriesGraph(project, "5.1")
//	dot := nodelink.ToDOT(g, nodelink.Options{LeftToRight: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. Series that are not displayed are drawn dashed and grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
