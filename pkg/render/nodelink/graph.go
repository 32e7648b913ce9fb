package nodelink

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
)

// Node kinds.
const (
	KindProject    = "project"
	KindSeries     = "series"
	KindRelease    = "release"
	KindDependency = "dependency"
)

// Node is a vertex of a diagram.
type Node struct {
	ID     string
	Label  string
	Kind   string
	Hidden bool // Series not displayed on the site
}

// Edge connects two nodes by id.
type Edge struct {
	From, To string
}

// Graph is a small directed graph ready for DOT conversion.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

func (g *Graph) add(n Node) { g.Nodes = append(g.Nodes, n) }

func (g *Graph) link(from, to string) { g.Edges = append(g.Edges, Edge{From: from, To: to}) }

// ProjectGraph shows a sorted project: the project, its series and the
// newest release of each series.
func ProjectGraph(p *catalog.Project) Graph {
	var g Graph
	root := "project:" + p.ID
	g.add(Node{ID: root, Label: p.ID, Kind: KindProject})

	for _, s := range p.SortedSeries {
		sid := "series:" + s.Version
		g.add(Node{ID: sid, Label: s.Version, Kind: KindSeries, Hidden: !s.IsDisplayed()})
		g.link(root, sid)

		if r := s.Latest(); r != nil {
			rid := "release:" + r.Version
			g.add(Node{ID: rid, Label: r.Version, Kind: KindRelease})
			g.link(sid, rid)
		}
	}
	return g
}

// SeriesGraph shows the newest release of a series with its resolved
// dependencies, in key order.
func SeriesGraph(p *catalog.Project, seriesVersion string) (Graph, error) {
	s, ok := p.Series(seriesVersion)
	if !ok {
		return Graph{}, errors.New(errors.ErrCodeSeriesNotFound, "project %s has no series %s", p.ID, seriesVersion)
	}
	r := s.Latest()
	if r == nil {
		return Graph{}, errors.New(errors.ErrCodeSeriesNotFound, "series %s of %s has no releases", seriesVersion, p.ID)
	}

	var g Graph
	rid := "release:" + r.Version
	g.add(Node{ID: rid, Label: p.ID + " " + r.Version, Kind: KindRelease, Hidden: !s.IsDisplayed()})

	deps := r.Dependencies.Map()
	for _, key := range slices.Sorted(maps.Keys(deps)) {
		did := "dep:" + key
		label := key
		if v := deps[key]; v != "" {
			label = strings.Replace(key, ":", "\n", 1) + "\n" + v
		}
		g.add(Node{ID: did, Label: label, Kind: KindDependency})
		g.link(rid, did)
	}
	return g, nil
}
