package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/manifest"
)

func sampleProject() *catalog.Project {
	hidden := false
	deps := manifest.NewDependencies()
	deps.Versions["org.jboss.logging:jboss-logging"] = "3.3.0.Final"
	deps.Versions["junit:junit"] = "4.12"

	latest := &catalog.Release{Version: "5.1.1.Final", Dependencies: deps}
	old := &catalog.Release{Version: "4.3.11.Final"}

	p := catalog.NewProject("orm")
	p.SortedReleases = []*catalog.Release{latest, old}
	p.SortedSeries = []*catalog.Series{
		{Version: "5.1", Releases: []*catalog.Release{latest}},
		{Version: "4.3", Displayed: &hidden, Releases: []*catalog.Release{old}},
	}
	p.Reindex()
	return p
}

func TestProjectGraph(t *testing.T) {
	g := ProjectGraph(sampleProject())

	if len(g.Nodes) != 5 || len(g.Edges) != 4 {
		t.Fatalf("got %d nodes, %d edges; want 5, 4", len(g.Nodes), len(g.Edges))
	}
	var hidden int
	for _, n := range g.Nodes {
		if n.Hidden {
			hidden++
		}
	}
	if hidden != 1 {
		t.Errorf("hidden nodes = %d, want 1", hidden)
	}
}

func TestSeriesGraph(t *testing.T) {
	g, err := SeriesGraph(sampleProject(), "5.1")
	if err != nil {
		t.Fatalf("SeriesGraph() error: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want release + 2 dependencies", len(g.Nodes))
	}
	if g.Nodes[1].ID != "dep:junit:junit" {
		t.Errorf("dependencies not in key order: %+v", g.Nodes)
	}
	if !strings.Contains(g.Nodes[1].Label, "4.12") {
		t.Errorf("label %q lacks version", g.Nodes[1].Label)
	}

	_, err = SeriesGraph(sampleProject(), "9.9")
	if !errors.Is(err, errors.ErrCodeSeriesNotFound) {
		t.Errorf("SeriesGraph(9.9) error = %v, want SERIES_NOT_FOUND", err)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(ProjectGraph(sampleProject()), Options{LeftToRight: true})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`"project:orm" -> "series:5.1";`,
		`"series:4.3" [label="4.3", style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
