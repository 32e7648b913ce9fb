package catalog

import (
	"sort"

	"github.com/matzehuels/relcat/pkg/manifest"
)

// Catalog holds every project found under a data directory, keyed by id.
type Catalog struct {
	Projects map[string]*Project `json:"projects" yaml:"projects" toml:"projects"`
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{Projects: make(map[string]*Project)}
}

// ProjectIDs returns the project ids in lexical order.
func (c *Catalog) ProjectIDs() []string {
	ids := make([]string, 0, len(c.Projects))
	for id := range c.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Project returns the project with the given id.
func (c *Catalog) Project(id string) (*Project, bool) {
	p, ok := c.Projects[id]
	return p, ok
}

// project returns the project with the given id, creating it on first use.
func (c *Catalog) project(id string) *Project {
	p, ok := c.Projects[id]
	if !ok {
		p = NewProject(id)
		c.Projects[id] = p
	}
	return p
}

// Project is the release history of one project.
//
// Releases and ReleaseSeries are keyed by version. SortedReleases and
// SortedSeries hold the same values ordered newest first; they are filled
// by [SortProject].
type Project struct {
	ID            string              `json:"id" yaml:"id" toml:"id" bson:"_id"`
	Releases      map[string]*Release `json:"-" yaml:"-" toml:"-" bson:"-"`
	ReleaseSeries map[string]*Series  `json:"-" yaml:"-" toml:"-" bson:"-"`

	SortedReleases []*Release `json:"releases" yaml:"releases" toml:"releases" bson:"releases"`
	SortedSeries   []*Series  `json:"release_series" yaml:"release_series" toml:"release_series" bson:"release_series"`

	releaseOrder []string
	seriesOrder  []string
}

// NewProject returns an empty project.
func NewProject(id string) *Project {
	return &Project{
		ID:            id,
		Releases:      make(map[string]*Release),
		ReleaseSeries: make(map[string]*Series),
	}
}

// Latest returns the newest release once the project is sorted, or nil.
func (p *Project) Latest() *Release {
	if len(p.SortedReleases) == 0 {
		return nil
	}
	return p.SortedReleases[0]
}

// Series returns the series with the given version.
func (p *Project) Series(version string) (*Series, bool) {
	s, ok := p.ReleaseSeries[version]
	return s, ok
}

func (p *Project) addRelease(r *Release) {
	if _, ok := p.Releases[r.Version]; !ok {
		p.releaseOrder = append(p.releaseOrder, r.Version)
	}
	p.Releases[r.Version] = r
}

func (p *Project) addSeries(s *Series) {
	if _, ok := p.ReleaseSeries[s.Version]; !ok {
		p.seriesOrder = append(p.seriesOrder, s.Version)
	}
	p.ReleaseSeries[s.Version] = s
}

// Series groups the releases of one version family.
type Series struct {
	Version   string         `json:"version" yaml:"version" toml:"version" bson:"version"`
	Displayed *bool          `json:"displayed,omitempty" yaml:"displayed,omitempty" toml:"displayed,omitempty" bson:"displayed,omitempty"`
	Releases  []*Release     `json:"releases" yaml:"releases" toml:"releases" bson:"releases"`
	Extra     map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty" bson:"extra,omitempty"`
}

// IsDisplayed reports whether the series is shown; unset means shown.
func (s *Series) IsDisplayed() bool {
	return s.Displayed == nil || *s.Displayed
}

// Latest returns the first release of the series. After sorting that is
// the newest one.
func (s *Series) Latest() *Release {
	if len(s.Releases) == 0 {
		return nil
	}
	return s.Releases[0]
}

// Release is a single release descriptor.
type Release struct {
	Version         string         `json:"version" yaml:"version" toml:"version" bson:"version"`
	VersionFamily   string         `json:"version_family" yaml:"version_family" toml:"version_family" bson:"version_family"`
	Date            string         `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty" bson:"date,omitempty"`
	Stable          *bool          `json:"stable,omitempty" yaml:"stable,omitempty" toml:"stable,omitempty" bson:"stable,omitempty"`
	AnnouncementURL string         `json:"announcement_url,omitempty" yaml:"announcement_url,omitempty" toml:"announcement_url,omitempty" bson:"announcement_url,omitempty"`
	Summary         string         `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty" bson:"summary,omitempty"`
	Displayed       *bool          `json:"displayed,omitempty" yaml:"displayed,omitempty" toml:"displayed,omitempty" bson:"displayed,omitempty"`
	GroupID         string         `json:"group_id,omitempty" yaml:"group_id,omitempty" toml:"group_id,omitempty" bson:"group_id,omitempty"`
	Extra           map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty" bson:"extra,omitempty"`

	// Dependencies is set on the newest release of each displayed series
	// once dependencies are attached.
	Dependencies *manifest.Dependencies `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty" bson:"dependencies,omitempty"`
}

// IsStable reports whether the release is marked stable.
func (r *Release) IsStable() bool {
	return r.Stable != nil && *r.Stable
}

// Reindex rebuilds the version maps and encounter order from SortedReleases
// and SortedSeries, as needed after decoding an exported project. Series
// releases are linked to the release values of the project map.
func (p *Project) Reindex() {
	p.Releases = make(map[string]*Release, len(p.SortedReleases))
	p.ReleaseSeries = make(map[string]*Series, len(p.SortedSeries))
	p.releaseOrder, p.seriesOrder = nil, nil

	for _, r := range p.SortedReleases {
		p.addRelease(r)
	}
	for _, s := range p.SortedSeries {
		for i, r := range s.Releases {
			if known, ok := p.Releases[r.Version]; ok {
				s.Releases[i] = known
			} else {
				p.addRelease(r)
			}
		}
		p.addSeries(s)
	}
}
