package catalog

import (
	"sort"

	"github.com/matzehuels/relcat/pkg/version"
)

// SortProject orders p newest first: SortedReleases, SortedSeries and the
// releases of every series, all by version key. Ties keep the order in
// which the builder met them, so sorting again changes nothing.
func SortProject(p *Project) {
	p.SortedReleases = make([]*Release, 0, len(p.releaseOrder))
	for _, v := range p.releaseOrder {
		p.SortedReleases = append(p.SortedReleases, p.Releases[v])
	}
	sortReleases(p.SortedReleases)

	p.SortedSeries = make([]*Series, 0, len(p.seriesOrder))
	for _, v := range p.seriesOrder {
		p.SortedSeries = append(p.SortedSeries, p.ReleaseSeries[v])
	}
	sort.SliceStable(p.SortedSeries, func(i, j int) bool {
		return newer(p.SortedSeries[i].Version, p.SortedSeries[j].Version)
	})

	for _, s := range p.SortedSeries {
		sortReleases(s.Releases)
	}
}

// SortCatalog sorts every project of c.
func SortCatalog(c *Catalog) {
	for _, p := range c.Projects {
		SortProject(p)
	}
}

func sortReleases(rs []*Release) {
	sort.SliceStable(rs, func(i, j int) bool {
		return newer(rs[i].Version, rs[j].Version)
	})
}

func newer(a, b string) bool {
	return version.Compare(a, b) > 0
}
