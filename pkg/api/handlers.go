package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	"github.com/matzehuels/plotkit/pkg/buildinfo"
	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
	"github.com/matzehuels/plotkit/pkg/pipeline"
	"github.com/matzehuels/plotkit/pkg/render"
	"github.com/matzehuels/plotkit/pkg/survey"
)

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// =============================================================================
// Blueprints
// =============================================================================

func (s *Server) handleListBlueprints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Registry.List())
}

// blueprintParam resolves {id}/{version}; version may be "latest".
func (s *Server) blueprintParam(r *http.Request) (blueprint.Blueprint, error) {
	id := chi.URLParam(r, "id")
	v := chi.URLParam(r, "version")
	if v == "latest" {
		return s.runner.Registry.Latest(id)
	}
	version, err := strconv.Atoi(v)
	if err != nil || version < 1 {
		return blueprint.Blueprint{}, perrors.New(perrors.ErrCodeInvalidInput, "invalid blueprint version %q", v)
	}
	return s.runner.Registry.Get(id, version)
}

func (s *Server) handleGetBlueprint(w http.ResponseWriter, r *http.Request) {
	bp, err := s.blueprintParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	bp, err := s.blueprintParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ov, err := overridesFromQuery(bp.Root.Shape, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	root, err := s.runner.Preview(r.Context(), bp.ID, bp.Version, ov)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

// overridesFromQuery applies ?width=, ?length= and ?radius= to the root
// shape. No parameters means no override.
func overridesFromQuery(base blueprint.Shape, r *http.Request) (layout.Overrides, error) {
	q := r.URL.Query()
	shape := base
	changed := false
	for name, dst := range map[string]*float64{"width": &shape.Width, "length": &shape.Length, "radius": &shape.Radius} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return layout.Overrides{}, perrors.New(perrors.ErrCodeInvalidInput, "invalid %s %q", name, raw)
		}
		*dst = v
		changed = true
	}
	if !changed {
		return layout.Overrides{}, nil
	}
	return layout.Overrides{RootDimensions: &shape}, nil
}

// =============================================================================
// Plots
// =============================================================================

type createPlotRequest struct {
	Name             string           `json:"name"`
	BlueprintID      string           `json:"blueprint_id"`
	BlueprintVersion int              `json:"blueprint_version,omitempty"`
	Location         *survey.Location `json:"location,omitempty"`
	RootDimensions   *blueprint.Shape `json:"root_dimensions,omitempty"`
	Surveyors        []string         `json:"surveyors,omitempty"`
	SurveyDate       time.Time        `json:"survey_date,omitempty"`
	Status           survey.Status    `json:"status,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

func (s *Server) handleListPlots(w http.ResponseWriter, r *http.Request) {
	plots, err := s.runner.Store.ListPlots(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plots)
}

func (s *Server) handleCreatePlot(w http.ResponseWriter, r *http.Request) {
	var req createPlotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	// New plots pin the latest version unless one is given.
	var bp blueprint.Blueprint
	var err error
	if req.BlueprintVersion == 0 {
		bp, err = s.runner.Registry.Latest(req.BlueprintID)
	} else {
		bp, err = s.runner.Registry.Get(req.BlueprintID, req.BlueprintVersion)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p := survey.NewPlot(req.Name, bp.ID, bp.Version)
	p.Location = req.Location
	p.RootDimensions = req.RootDimensions
	p.Surveyors = req.Surveyors
	p.SurveyDate = req.SurveyDate
	p.Notes = req.Notes
	if req.Status != "" {
		p.Status = req.Status
	}
	if err := p.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Reject overrides the generator cannot lay out before storing.
	if _, err := p.Layout(s.runner.Registry); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Store.PutPlot(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/plots/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPlot(w http.ResponseWriter, r *http.Request) {
	p, err := s.runner.Store.GetPlot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlot(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Store.DeletePlot(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	opts := render.Options{Detailed: r.URL.Query().Get("detailed") == "true"}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		root, hit, err := s.runner.PlotLayoutWithCacheInfo(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("X-Cache", cacheHeader(hit))
		writeJSON(w, http.StatusOK, root)
	case "dot":
		dot, err := s.runner.PlotDOT(r.Context(), id, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := s.runner.RenderPlot(r.Context(), id, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "unknown layout format %q", format))
	}
}

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.Completion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// Observations
// =============================================================================

// requireUnit checks that unitID is a sampling unit of the plot's layout.
func (s *Server) requireUnit(r *http.Request, plotID, unitID string) error {
	root, err := s.runner.PlotLayout(r.Context(), plotID)
	if err != nil {
		return err
	}
	n, ok := root.Find(unitID)
	if !ok || !n.IsSamplingUnit() {
		return perrors.New(perrors.ErrCodeInvalidInput, "%s is not a sampling unit of plot %s", unitID, plotID)
	}
	return nil
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	var t ecology.TreeObservation
	if err := decodeJSON(w, r, &t); err != nil {
		s.writeError(w, r, err)
		return
	}
	t.PlotID = chi.URLParam(r, "id")
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.RecordedAt.IsZero() {
		t.RecordedAt = time.Now().UTC()
	}
	if err := s.requireUnit(r, t.PlotID, t.SamplingUnitID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Store.PutTree(r.Context(), t); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handlePutVegetation(w http.ResponseWriter, r *http.Request) {
	var v ecology.VegetationObservation
	if err := decodeJSON(w, r, &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	v.PlotID = chi.URLParam(r, "id")
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}
	if err := s.requireUnit(r, v.PlotID, v.SamplingUnitID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Store.PutVegetation(r.Context(), v); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handlePutProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status survey.ProgressStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	p := survey.SamplingUnitProgress{
		PlotID:         chi.URLParam(r, "id"),
		SamplingUnitID: chi.URLParam(r, "unit"),
		Status:         body.Status,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.requireUnit(r, p.PlotID, p.SamplingUnitID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Store.PutProgress(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// =============================================================================
// Analysis
// =============================================================================

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.AnalyzeOptions
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	report, hit, err := s.runner.AnalyzeWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, report)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
