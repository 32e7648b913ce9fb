package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/relcat/pkg/cache"
	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
)

// etagLength is the number of hash characters kept in an ETag.
const etagLength = 16

// ProjectSummary is one entry of the /projects listing.
type ProjectSummary struct {
	ID       string `json:"id"`
	Releases int    `json:"releases"`
	Series   int    `json:"series"`
	Latest   string `json:"latest,omitempty"`
}

// Health is the /healthz response body.
type Health struct {
	Status   string    `json:"status"`
	Projects int       `json:"projects"`
	BuiltAt  time.Time `json:"built_at,omitzero"`
	Error    string    `json:"error,omitempty"`
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cat, builtAt, err := s.snapshot()
	h := Health{Status: "ok", BuiltAt: builtAt}
	if cat != nil {
		h.Projects = len(cat.Projects)
	}
	status := http.StatusOK
	switch {
	case cat == nil:
		h.Status = "unavailable"
		status = http.StatusServiceUnavailable
	case err != nil:
		h.Status = "stale"
	}
	if err != nil {
		h.Error = errors.UserMessage(err)
	}
	writeJSON(w, status, h)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.Rebuild(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.handleHealth(w, r)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.current(w)
	if !ok {
		return
	}
	out := make([]ProjectSummary, 0, len(cat.Projects))
	for _, id := range cat.ProjectIDs() {
		p, _ := cat.Project(id)
		sum := ProjectSummary{ID: id, Releases: len(p.Releases), Series: len(p.ReleaseSeries)}
		if latest := p.Latest(); latest != nil {
			sum.Latest = latest.Version
		}
		out = append(out, sum)
	}
	writeCatalogJSON(w, r, out)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	writeCatalogJSON(w, r, p)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	version := chi.URLParam(r, "version")
	series, found := p.Series(version)
	if !found {
		writeError(w, errors.New(errors.ErrCodeSeriesNotFound, "project %s has no series %s", p.ID, version))
		return
	}
	writeCatalogJSON(w, r, series)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	version := chi.URLParam(r, "version")
	release, found := p.Releases[version]
	if !found {
		writeError(w, errors.New(errors.ErrCodeNotFound, "project %s has no release %s", p.ID, version))
		return
	}
	writeCatalogJSON(w, r, release)
}

// current returns the loaded catalog or answers 503 when none is loaded.
func (s *Server) current(w http.ResponseWriter) (*catalog.Catalog, bool) {
	cat, _, _ := s.snapshot()
	if cat == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error: "catalog not built yet",
			Code:  errors.ErrCodeInternal,
		})
		return nil, false
	}
	return cat, true
}

func (s *Server) project(w http.ResponseWriter, r *http.Request) (*catalog.Project, bool) {
	cat, ok := s.current(w)
	if !ok {
		return nil, false
	}
	id := chi.URLParam(r, "id")
	p, found := cat.Project(id)
	if !found {
		writeError(w, errors.New(errors.ErrCodeProjectNotFound, "unknown project %s", id))
		return nil, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeCatalogJSON writes v with an ETag derived from its encoding and
// answers 304 when the client already holds that representation.
func writeCatalogJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode response"))
		return
	}
	body = append(body, '\n')

	etag := `"` + cache.Hash(body)[:etagLength] + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{Error: errors.UserMessage(err), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeProjectNotFound, errors.ErrCodeSeriesNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeManifestUnavailable, errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
